package config

import (
	"testing"
)

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(s *Settings)
		wantPaths []string
	}{
		{
			name:   "defaults are valid",
			modify: func(s *Settings) {},
		},
		{
			name: "full load options",
			modify: func(s *Settings) {
				s.Iterations = 100
				s.VUs = 10
				s.Duration = "1m"
			},
		},
		{
			name:      "negative max redirects",
			modify:    func(s *Settings) { s.MaxRedirects = -1 },
			wantPaths: []string{KeyMaxRedirects},
		},
		{
			name:      "negative iterations and vus",
			modify:    func(s *Settings) { s.Iterations = -1; s.VUs = -2 },
			wantPaths: []string{KeyIterations, KeyVUs},
		},
		{
			name:      "invalid duration",
			modify:    func(s *Settings) { s.Duration = "forever" },
			wantPaths: []string{KeyDuration},
		},
		{
			name:      "zero duration",
			modify:    func(s *Settings) { s.Duration = "0s" },
			wantPaths: []string{KeyDuration},
		},
		{
			name:      "empty libs",
			modify:    func(s *Settings) { s.Libs = " " },
			wantPaths: []string{KeyLibs},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)

			errs := ValidateSettings(s)
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("ValidateSettings() returned %d errors, want %d: %v", len(errs), len(tt.wantPaths), errs)
			}
			for i, path := range tt.wantPaths {
				if errs[i].Path != path {
					t.Errorf("errs[%d].Path = %q, want %q", i, errs[i].Path, path)
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Path: "vus", Message: "cannot be negative"}
	if got := err.Error(); got != "vus: cannot be negative" {
		t.Errorf("Error() = %q", got)
	}
}

func TestJoinValidationErrors(t *testing.T) {
	got := joinValidationErrors([]ValidationError{
		{Path: "a", Message: "one"},
		{Path: "b", Message: "two"},
	})
	if got != "a: one; b: two" {
		t.Errorf("joinValidationErrors() = %q", got)
	}
}
