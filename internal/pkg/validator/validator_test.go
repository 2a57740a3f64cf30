package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("a"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("taro@example.com"))
	assert.True(t, IsValidEmail("taro+tag@sub.example.co.jp"))
	assert.False(t, IsValidEmail("taro@"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2026-04-01")
	assert.True(t, ok)

	_, ok = IsValidDate("2026-4-1")
	assert.False(t, ok)
	_, ok = IsValidDate("04/01/2026")
	assert.False(t, ok)
}

func TestIsValidYearMonth(t *testing.T) {
	_, ok := IsValidYearMonth("2026-04")
	assert.True(t, ok)

	_, ok = IsValidYearMonth("2026-13")
	assert.False(t, ok)
	_, ok = IsValidYearMonth("April")
	assert.False(t, ok)
}

func TestIsValidClockTime(t *testing.T) {
	parsed, ok := IsValidClockTime("09:30")
	assert.True(t, ok)
	assert.Equal(t, 9, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())

	_, ok = IsValidClockTime("25:00")
	assert.False(t, ok)
	_, ok = IsValidClockTime("9時30分")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}

	assert.Equal(t, "email: email is required; password: password is required", errs.Error())
	assert.Equal(t, map[string]string{
		"email":    "email is required",
		"password": "password is required",
	}, errs.ToMap())
}
