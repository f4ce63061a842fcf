package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompiledPatterns(t *testing.T) {
	assert.True(t, CompiledPatterns.Email.MatchString("jobs@acme.example"))
	assert.False(t, CompiledPatterns.Email.MatchString("not-an-email"))

	assert.True(t, CompiledPatterns.PostalCode.MatchString("10115"))
	assert.False(t, CompiledPatterns.PostalCode.MatchString("1011"))
	assert.False(t, CompiledPatterns.PostalCode.MatchString("10115a"))

	assert.True(t, CompiledPatterns.Phone.MatchString("+4930123456"))
	assert.False(t, CompiledPatterns.Phone.MatchString("12345"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("Acme GmbH").
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate())

	assert.False(t, NewStringValidation("A").
		WithMinLength(NameMinLength).
		Validate())

	assert.False(t, NewStringValidation("").Validate())

	// Optional empty values pass without further checks.
	assert.True(t, NewStringValidation("").
		WithRequired(false).
		WithPattern(CompiledPatterns.Phone).
		Validate())
}

func TestNumericValidation(t *testing.T) {
	assert.True(t, NewNumericValidation(3).WithMin(1).WithMax(5).Validate())
	assert.False(t, NewNumericValidation(0).WithMin(1).Validate())
	assert.False(t, NewNumericValidation(6).WithMax(5).Validate())
}
