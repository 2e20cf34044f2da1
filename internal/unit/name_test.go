package unit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromPath(t *testing.T) {
	testCases := []struct {
		path     string
		suffix   string
		expected string
	}{
		{"/dev/sda2", ".device", "dev-sda2.device"},
		{"/dev/disk/by-uuid/0a1b2c3d-aaaa", ".device", `dev-disk-by\x2duuid-0a1b2c3d\x2daaaa.device`},
		{"/dev/mapper/luks-swap", ".device", `dev-mapper-luks\x2dswap.device`},
		{"/", ".mount", "-.mount"},
		{"/dev/disk/by-partlabel/swap:1", ".device", `dev-disk-by\x2dpartlabel-swap:1.device`},
		{"/dev//sda2", ".device", "dev-sda2.device"},
		{"/dev/sda2/", ".device", "dev-sda2.device"},
		{"/dev/./sda2", ".device", "dev-sda2.device"},
		{"//", ".mount", "-.mount"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			name, err := NameFromPath(tc.path, tc.suffix)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, name)
		})
	}
}

func TestNameFromPathInvalid(t *testing.T) {
	testCases := []struct {
		path   string
		suffix string
		err    error
	}{
		{"dev/sda2", ".device", ErrInvalidPath},
		{"", ".device", ErrInvalidPath},
		{"/dev/../sda2", ".device", ErrInvalidPath},
		{"/dev/sda2/..", ".device", ErrInvalidPath},
		{"/dev/sda\x002", ".device", ErrInvalidPath},
		{"/dev/sda2", "device", ErrInvalidSuffix},
		{"/dev/sda2", ".", ErrInvalidSuffix},
		{"/dev/sda2", ".dev.ice", ErrInvalidSuffix},
		{"/dev/" + strings.Repeat("a", 260), ".device", ErrNameTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.path+tc.suffix, func(t *testing.T) {
			_, err := NameFromPath(tc.path, tc.suffix)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
