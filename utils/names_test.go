package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPartnerName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Ailuogwemhe, Jodie O", "Ailuogwemhe, Jodie O"},
		{"Nguyen, Thanh P 08/01/2025 - 08/07/2025", "Nguyen, Thanh P"},
		{"Garcia, Luis 08/04/2025", "Garcia, Luis"},
		{"May 15, 2025 Garcia, Luis", "Garcia, Luis"},
		{"- Smith, Alex 7:30 AM", "Smith, Alex"},
		{"*| Smith,   Alex ,", "Smith, Alex"},
		{"08/01/2025 - 08/07/2025", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanPartnerName(tc.raw), "raw: %q", tc.raw)
	}
}

func TestNormalizeNameKey(t *testing.T) {
	assert.Equal(t, "ailuogwemhejodieo", NormalizeNameKey("Ailuogwemhe, Jodie O"))
	assert.Equal(t, "", NormalizeNameKey("12345"))
}

func TestSameName(t *testing.T) {
	assert.True(t, SameName("Ailuogwemhe, Jodie O", "ailuogwemhe jodie o"))
	assert.True(t, SameName("Garcia, Luis", "GARCIA LUIS"))
	assert.False(t, SameName("Garcia, Luis", "Garcia, Ana"))
	assert.False(t, SameName("", ""))
}
