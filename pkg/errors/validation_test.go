package errors

import (
	"strings"
	"testing"
)

func TestValidateCommitID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"full sha1", "4b825dc642cb6eb9a060e54bf8d69288fbee4904", false},
		{"short", "C1", false},
		{"dashes", "feature-1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"space", "abc def", true},
		{"tab", "abc\tdef", true},
		{"hash sign", "abc#def", true},
		{"control char", "abc\x01", true},
		{"newline", "abc\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommitID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommitID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateRefLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"branch", "main", false},
		{"head arrow", "HEAD -> main", false},
		{"tag", "tag: r12", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"newline", "main\nx", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRefLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRefLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
