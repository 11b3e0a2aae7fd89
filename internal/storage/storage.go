// SPDX-License-Identifier: MPL-2.0

// Package storage is the file-system facade used by the pipelines. It is a
// thin layer over a gocloud.dev blob bucket rooted at the project directory:
// directory listing, whole-file reads, and whole-file writes that create
// parent directories. Stores opened with OpenDir answer directory questions
// from the file system, so empty directories exist.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // registers the file:// scheme
	"gocloud.dev/gcerrors"
)

var (
	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrDirNotFound is returned when a directory does not exist.
	ErrDirNotFound = errors.New("directory not found")
)

type (
	// Store reads and writes files relative to a project root. Names are
	// slash-separated and relative to the root.
	Store struct {
		bucket *blob.Bucket
		root   string
		// localDir is set for stores opened with OpenDir.
		localDir string
	}

	// PathError records the file or directory an operation failed on.
	PathError struct {
		Op   string
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error { return e.Err }

// OpenDir opens a store on a local project directory. Blob attribute sidecar
// files are never written.
func OpenDir(ctx context.Context, dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "metadata=skip"}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	s, err := Open(ctx, u.String(), abs)
	if err != nil {
		return nil, err
	}
	s.localDir = abs
	return s, nil
}

// Open opens a store on any registered bucket URL (file://, mem://). root is
// the prefix used when paths are shown to the user.
func Open(ctx context.Context, bucketURL, root string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, &PathError{Op: "open", Path: root, Err: err}
	}
	return &Store{bucket: bucket, root: root}, nil
}

// Close releases the bucket.
func (s *Store) Close() error { return s.bucket.Close() }

// Path returns name as a user-facing path under the store root.
func (s *Store) Path(name string) string {
	if s.root == "" {
		return name
	}
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// DirExists reports whether dir exists. Bucket-only stores have no empty
// directories, so there a directory exists when it holds at least one file.
func (s *Store) DirExists(ctx context.Context, dir string) (bool, error) {
	if s.localDir != "" {
		info, err := os.Stat(s.localPath(dir))
		switch {
		case err == nil:
			return info.IsDir(), nil
		case errors.Is(err, fs.ErrNotExist):
			return false, nil
		default:
			return false, &PathError{Op: "stat", Path: s.Path(dir), Err: err}
		}
	}

	iter := s.bucket.List(&blob.ListOptions{Prefix: dirPrefix(dir)})
	_, err := iter.Next(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, io.EOF), gcerrors.Code(err) == gcerrors.NotFound:
		return false, nil
	default:
		return false, &PathError{Op: "stat", Path: s.Path(dir), Err: err}
	}
}

// RequireDir returns a PathError wrapping ErrDirNotFound when dir is missing.
func (s *Store) RequireDir(ctx context.Context, dir string) error {
	ok, err := s.DirExists(ctx, dir)
	if err != nil {
		return err
	}
	if !ok {
		return &PathError{Op: "open", Path: s.Path(dir), Err: ErrDirNotFound}
	}
	return nil
}

// ListDirs returns the names of the immediate subdirectories of dir in
// lexical order. A missing dir has none.
func (s *Store) ListDirs(ctx context.Context, dir string) ([]string, error) {
	var out []string
	if s.localDir != "" {
		entries, err := os.ReadDir(s.localPath(dir))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, &PathError{Op: "list", Path: s.Path(dir), Err: err}
		}
		for _, e := range entries {
			if e.IsDir() {
				out = append(out, e.Name())
			}
		}
		return out, nil
	}

	err := s.list(ctx, dir, func(obj *blob.ListObject, name string) {
		if obj.IsDir {
			out = append(out, name)
		}
	})
	return out, err
}

// ListFiles returns the names of the files directly in dir that end in ext,
// in lexical order.
func (s *Store) ListFiles(ctx context.Context, dir, ext string) ([]string, error) {
	var out []string
	err := s.list(ctx, dir, func(obj *blob.ListObject, name string) {
		if !obj.IsDir && strings.HasSuffix(name, ext) {
			out = append(out, name)
		}
	})
	return out, err
}

func (s *Store) list(ctx context.Context, dir string, visit func(*blob.ListObject, string)) error {
	prefix := dirPrefix(dir)
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				return nil
			}
			return &PathError{Op: "list", Path: s.Path(dir), Err: err}
		}
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
		if name != "" {
			visit(obj, name)
		}
	}
}

// ReadFile returns the contents of name.
func (s *Store) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, clean(name))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			err = ErrNotFound
		}
		return nil, &PathError{Op: "read", Path: s.Path(name), Err: err}
	}
	return data, nil
}

// FileExists reports whether name exists.
func (s *Store) FileExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, clean(name))
	if err != nil {
		return false, &PathError{Op: "stat", Path: s.Path(name), Err: err}
	}
	return ok, nil
}

// WriteFile replaces name with data, creating parent directories.
func (s *Store) WriteFile(ctx context.Context, name string, data []byte) error {
	opts := &blob.WriterOptions{ContentType: contentType(name)}
	if err := s.bucket.WriteAll(ctx, clean(name), data, opts); err != nil {
		return &PathError{Op: "write", Path: s.Path(name), Err: err}
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (s *Store) localPath(name string) string {
	return filepath.Join(s.localDir, filepath.FromSlash(clean(name)))
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "./")
}

func dirPrefix(dir string) string {
	dir = clean(dir)
	if dir == "." || dir == "" {
		return ""
	}
	return strings.TrimSuffix(dir, "/") + "/"
}
