// SPDX-License-Identifier: MPL-2.0

package sourcegen

import "github.com/langlock/langlock/internal/diag"

const (
	// StatusGenerated means files were synthesized (or would be, in a dry run).
	StatusGenerated Status = "generated"
	// StatusSourceExists means the source locale exists and --force was not given.
	StatusSourceExists Status = "source_exists"
	// StatusNoLocales means the package has no locale to use as reference.
	StatusNoLocales Status = "no_locales"
	// StatusReferenceMissing means the requested reference locale does not exist.
	StatusReferenceMissing Status = "reference_missing"
	// StatusNoFiles means the reference locale has no PHP files.
	StatusNoFiles Status = "no_files"
)

type (
	// Status is the result of processing one vendor package.
	Status string

	// Request holds the inputs of one generate-source run.
	Request struct {
		// SourceDirectory overrides source_directory from the Laravel config.
		SourceDirectory string
		// ConfigFile is the Laravel translator config.
		ConfigFile string
		// Packages are glob patterns selecting vendor packages; empty means all.
		Packages []string
		// SourceLocale is the locale directory to create.
		SourceLocale string
		// Reference forces the locale keys are read from.
		Reference string
		Force     bool
		DryRun    bool
	}

	// FileResult is one synthesized file.
	FileResult struct {
		Name string
		// Keys is the number of leaves written.
		Keys int
		// Failure is set when the file could not be generated.
		Failure *diag.Diagnostic
	}

	// PackageReport is the outcome for one vendor package.
	PackageReport struct {
		Package   string
		Status    Status
		Reference string
		Files     []FileResult
	}

	// Report describes a finished run.
	Report struct {
		VendorDirectory string
		SourceLocale    string
		DryRun          bool
		Packages        []PackageReport
		// Diagnostics holds warnings not tied to a generated file.
		Diagnostics []diag.Diagnostic
	}
)

// Generated returns the number of files synthesized without failure.
func (r *Report) Generated() int {
	n := 0
	for _, p := range r.Packages {
		for _, f := range p.Files {
			if f.Failure == nil {
				n++
			}
		}
	}
	return n
}

// Failed returns the number of files that could not be synthesized.
func (r *Report) Failed() int {
	n := 0
	for _, p := range r.Packages {
		for _, f := range p.Files {
			if f.Failure != nil {
				n++
			}
		}
	}
	return n
}
