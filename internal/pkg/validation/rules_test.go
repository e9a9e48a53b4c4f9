package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidJoinCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"uppercase alphanumeric", "A1B2C3", true},
		{"all letters", "ABCDEF", true},
		{"all digits", "123456", true},
		{"lowercase rejected", "a1b2c3", false},
		{"too short", "A1B2C", false},
		{"too long", "A1B2C3D", false},
		{"special characters rejected", "A1B2C!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidJoinCode(tt.code))
		})
	}
}

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"origin", 0, 0, true},
		{"extreme valid corners", 90, 180, true},
		{"negative extremes", -90, -180, true},
		{"latitude out of range", 90.1, 0, false},
		{"longitude out of range", 0, -180.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCoordinate(tt.lat, tt.lng))
		})
	}
}

func TestEmailPattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Email.MatchString("volunteer@ecoquest.app"))
	assert.True(t, CompiledPatterns.Email.MatchString("a.b+c@sub.example.org"))
	assert.False(t, CompiledPatterns.Email.MatchString("not-an-email"))
	assert.False(t, CompiledPatterns.Email.MatchString("missing@tld"))
}

func TestStringValidation(t *testing.T) {
	t.Run("required empty value fails", func(t *testing.T) {
		ok := NewStringValidation("").WithRequired(true).Validate()
		assert.False(t, ok)
	})

	t.Run("length bounds", func(t *testing.T) {
		assert.True(t, NewStringValidation("hello").WithMinLength(2).WithMaxLength(10).Validate())
		assert.False(t, NewStringValidation("h").WithMinLength(2).Validate())
		assert.False(t, NewStringValidation("this is far too long").WithMaxLength(10).Validate())
	})

	t.Run("pattern match", func(t *testing.T) {
		assert.True(t, NewStringValidation("AB12CD").WithPattern(CompiledPatterns.JoinCode).Validate())
		assert.False(t, NewStringValidation("ab12cd").WithPattern(CompiledPatterns.JoinCode).Validate())
	})
}
