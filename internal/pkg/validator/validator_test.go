package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"123e4567-e89b-12d3-a456-426614174000",
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"{123e4567-e89b-12d3-a456-426614174000}",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidMonth(t *testing.T) {
	month, ok := IsValidMonth("2024-02")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), month)

	_, ok = IsValidMonth("2024-13")
	assert.False(t, ok)
	_, ok = IsValidMonth("02-2024")
	assert.False(t, ok)
}

func TestIsValidClock(t *testing.T) {
	clock, ok := IsValidClock("11:30")
	assert.True(t, ok)
	assert.Equal(t, 11, clock.Hour())
	assert.Equal(t, 30, clock.Minute())

	_, ok = IsValidClock("25:00")
	assert.False(t, ok)
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "098765 43210", "98765-43210"}
	invalid := []string{"12345", "5876543210", "+449876543210", "98765432101"}
	for _, p := range valid {
		assert.True(t, IsValidPhoneNumber(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsValidPhoneNumber(p), p)
	}
}

func TestIsValidBiometricID(t *testing.T) {
	assert.True(t, IsValidBiometricID("1001"))
	assert.True(t, IsValidBiometricID("EMP42"))
	assert.False(t, IsValidBiometricID(""))
	assert.False(t, IsValidBiometricID("has space"))
	assert.False(t, IsValidBiometricID("1234567890123456789012345"))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("email", "email is required")
	errs.Add("month", "month must be YYYY-MM")

	err := errs.Err()
	assert.Error(t, err)
	assert.Equal(t, "email: email is required; month: month must be YYYY-MM", err.Error())
	assert.Equal(t, map[string]string{"email": "email is required", "month": "month must be YYYY-MM"}, errs.ToMap())
}
