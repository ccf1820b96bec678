package poll

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateQuestion(t *testing.T) {
	if _, err := ValidateQuestion("  ok  "); err == nil {
		t.Fatalf("expected error for question below min length")
	}
	if _, err := ValidateQuestion(strings.Repeat("x", QuestionMaxLen+1)); err == nil {
		t.Fatalf("expected error for question above max length")
	}

	q, err := ValidateQuestion("  Coffee or tea?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "Coffee or tea?" {
		t.Fatalf("expected trimmed question, got %q", q)
	}
}

func TestValidateDescription(t *testing.T) {
	if d, err := ValidateDescription(nil); err != nil || d != nil {
		t.Fatalf("nil description should pass through, got %v %v", d, err)
	}

	empty := "   "
	if d, err := ValidateDescription(&empty); err != nil || d != nil {
		t.Fatalf("blank description should collapse to nil, got %v %v", d, err)
	}

	long := strings.Repeat("x", DescriptionMaxLen+1)
	if _, err := ValidateDescription(&long); err == nil {
		t.Fatalf("expected error for oversized description")
	}
}

func TestValidateExpiresAt(t *testing.T) {
	now := time.Now()

	if err := ValidateExpiresAt(nil, now); err != nil {
		t.Fatalf("nil expiry should be valid: %v", err)
	}

	past := now.Add(-time.Hour)
	if err := ValidateExpiresAt(&past, now); err == nil {
		t.Fatalf("expected error for past expiry")
	}

	exact := now
	if err := ValidateExpiresAt(&exact, now); err == nil {
		t.Fatalf("expiry equal to now must be rejected, the bound is strict")
	}

	future := now.Add(time.Hour)
	if err := ValidateExpiresAt(&future, now); err != nil {
		t.Fatalf("future expiry should be valid: %v", err)
	}
}

func TestValidateOptionLabels(t *testing.T) {
	cases := []struct {
		name   string
		in     []string
		wantOK bool
		want   []string
	}{
		{"two valid", []string{"Coffee", "Tea"}, true, []string{"Coffee", "Tea"}},
		{"trims and drops empties", []string{" A ", "", "  ", "B"}, true, []string{"A", "B"}},
		{"one option", []string{"Only"}, false, nil},
		{"zero options", nil, false, nil},
		{"empties collapse below min", []string{"A", "   "}, false, nil},
		{"duplicate labels", []string{"Same", "Same"}, false, nil},
		{"duplicate after trim", []string{"Same", " Same "}, false, nil},
		{"case sensitive dup check", []string{"same", "Same"}, true, []string{"same", "Same"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateOptionLabels(tc.in)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(got) != len(tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
				for i := range got {
					if got[i] != tc.want[i] {
						t.Fatalf("expected %v, got %v", tc.want, got)
					}
				}
				return
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	tooMany := make([]string, MaxOptions+1)
	for i := range tooMany {
		tooMany[i] = strings.Repeat("x", i+1)
	}
	if _, err := ValidateOptionLabels(tooMany); err == nil {
		t.Fatalf("expected error for %d options", MaxOptions+1)
	}

	atMax := tooMany[:MaxOptions]
	if _, err := ValidateOptionLabels(atMax); err != nil {
		t.Fatalf("%d options should be accepted: %v", MaxOptions, err)
	}
}
