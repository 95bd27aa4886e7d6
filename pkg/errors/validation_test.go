package errors

import (
	"strings"
	"testing"
)

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"element", "H", false},
		{"positron", "e+", false},
		{"isotope", "10Be", false},
		{"group", "SubFe", false},
		{"with dash", "1H-bar", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "H\x00e", true},
		{"newline", "H\nHe", true},
		{"carriage return", "H\r", true},
		{"ampersand", "H&den=He", true},
		{"equals", "num=H", true},
		{"fragment", "H#x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuantity("num", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuantity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParameter) {
				t.Errorf("ValidateQuantity(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidParameter)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://lpsc.in2p3.fr/crdb", false},
		{"http", "http://localhost:8080", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "lpsc.in2p3.fr/crdb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
