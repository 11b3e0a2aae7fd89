// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"errors"
	"testing"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityWarning, true},
		{SeverityError, true},
		{"", false},
		{"WARNING", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.severity.IsValid()
			if isValid != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, isValid, tt.want)
			}
			if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidSeverity)) {
				t.Errorf("Severity(%q).IsValid() errors = %v, want ErrInvalidSeverity", tt.severity, errs)
			}
		})
	}
}

func TestCode_IsValid(t *testing.T) {
	t.Parallel()

	for _, code := range []Code{CodeMalformedTree, CodeUnreadableFile, CodeWriteFailed, CodeSynthesisFailed, CodeConfigUnreadable, CodePriorRegistryInvalid} {
		if ok, errs := code.IsValid(); !ok || len(errs) > 0 {
			t.Errorf("Code(%q).IsValid() = %v, %v", code, ok, errs)
		}
	}

	ok, errs := Code("nope").IsValid()
	if ok || len(errs) == 0 || !errors.Is(errs[0], ErrInvalidCode) {
		t.Errorf("Code(nope).IsValid() = %v, %v", ok, errs)
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()

	warn := Warning(CodeMalformedTree, "lang/en/a.php", "skipped", nil)
	fail := Failure(CodeWriteFailed, "lang/vendor/p/en/a.php", "write failed", errors.New("disk full"))

	if HasErrors([]Diagnostic{warn}) {
		t.Error("warnings alone must not count as errors")
	}
	if !HasErrors([]Diagnostic{warn, fail}) {
		t.Error("expected HasErrors to detect the failure")
	}
	if warn.Path != "lang/en/a.php" || fail.Severity != SeverityError {
		t.Errorf("constructors set wrong fields: %+v %+v", warn, fail)
	}
}
