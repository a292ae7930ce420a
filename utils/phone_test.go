package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"couple-diary-system/utils"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+15551234567", "+15551234567"},
		{"15551234567", "+15551234567"},
		{"555 123-4567", "+5551234567"},
		{"+1 555-123 4567", "+15551234567"},
		{"", ""},
		{" - ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, utils.NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once := utils.NormalizePhone("555 123-4567")
	assert.Equal(t, once, utils.NormalizePhone(once))
}
