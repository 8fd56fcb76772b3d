package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"letters digits and allowed punctuation", "My_Pack-1.0, 'edition'", nil},
		{"spaces allowed", "cute cats", nil},
		{"exclamation mark rejected", "pack!", ErrInvalidCharacters},
		{"slash rejected", "a/b", ErrInvalidCharacters},
		{"unicode rejected", "packé", ErrInvalidCharacters},
		{"single dots fine", "com.example.pack", nil},
		{"double dot rejected", "com..example", ErrDoubleDot},
		{"double dot at end rejected", "pack..", ErrDoubleDot},
		{"long but valid", strings.Repeat("a", 500), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, CheckIdentifier(tt.input), tt.want)
		})
	}
}

func TestValidateWebsiteURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"https url", "https://example.com/page", nil},
		{"http url", "http://example.com", nil},
		{"bare hostname", "example.com", ErrMalformedURL},
		{"empty scheme with slashes", "//example.com", ErrMalformedURL},
		{"ftp scheme", "ftp://example.com/file", ErrSchemeNotHTTP},
		{"mailto scheme", "mailto:dev@example.com", ErrMalformedURL},
		{"plain text", "not a url", ErrMalformedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateWebsiteURL(tt.input), tt.want)
		})
	}
}

func TestValidateURLInDomain(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		domain string
		want   error
	}{
		{"exact host match", "https://play.google.com/store/apps", "play.google.com", nil},
		{"different host", "https://evil.com/store", "play.google.com", ErrWrongDomain},
		{"subdomain does not match", "https://sub.play.google.com/x", "play.google.com", ErrWrongDomain},
		{"host match is case sensitive", "https://Play.Google.com/x", "play.google.com", ErrWrongDomain},
		{"port breaks the match", "https://play.google.com:8080/x", "play.google.com", ErrWrongDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateURLInDomain(tt.input, tt.domain), tt.want)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"plain address", "dev@example.com", nil},
		{"plus tag", "dev+stickers@example.co.uk", nil},
		{"missing at sign", "example.com", ErrInvalidEmail},
		{"missing domain dot", "dev@localhost", ErrInvalidEmail},
		{"contains whitespace", "dev @example.com", ErrInvalidEmail},
		{"two at signs", "a@b@example.com", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateEmail(tt.input), tt.want)
		})
	}
}
