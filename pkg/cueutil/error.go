// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError flattens a CUE error into "<file>: <field.path>: <message>"
// lines. Messages for the same field are grouped under one line, and the
// schema definition a path starts from (#Config) is left out. Non-CUE errors
// are wrapped with the file name.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := errors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	type group struct {
		path string
		msgs []string
	}
	var groups []*group
	byPath := make(map[string]*group)
	for _, e := range cueErrs {
		raw := errors.Path(e)
		path := formatPath(raw)
		msg := trimPathPrefix(e.Error(), strings.Join(raw, "."), path)

		g, ok := byPath[path]
		if !ok {
			g = &group{path: path}
			byPath[path] = g
			groups = append(groups, g)
		}
		if !slices.Contains(g.msgs, msg) {
			g.msgs = append(g.msgs, msg)
		}
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		line := strings.Join(g.msgs, "\n    ")
		if g.path != "" {
			line = g.path + ": " + line
		}
		lines = append(lines, line)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// trimPathPrefix removes a leading "<path>:" that CUE puts in front of its
// messages.
func trimPathPrefix(msg string, paths ...string) string {
	for _, p := range paths {
		if p != "" && strings.HasPrefix(msg, p+":") {
			return strings.TrimSpace(msg[len(p)+1:])
		}
	}
	return msg
}

// formatPath renders ["#Config", "export", "0", "format"] as
// "export[0].format".
func formatPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}

	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
