package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^BK-\d{8}-[0-9A-Z]{5}$`)

func TestNewBookingReferenceFormat(t *testing.T) {
	on := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	ref, err := NewBookingReference(on)
	require.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)
	assert.Equal(t, "BK-20240601-", ref[:12])
}

func TestNewBookingReferenceUsesUTCDate(t *testing.T) {
	// 23:30 in UTC+2 is still the previous day in UTC
	loc := time.FixedZone("CEST", 2*60*60)
	on := time.Date(2024, 6, 2, 1, 30, 0, 0, loc)

	ref, err := NewBookingReference(on)
	require.NoError(t, err)
	assert.Equal(t, "BK-20240601-", ref[:12])
}

func TestNewBookingReferenceSuffixVaries(t *testing.T) {
	on := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ref, err := NewBookingReference(on)
		require.NoError(t, err)
		seen[ref] = struct{}{}
	}
	// 36^5 suffixes make 50 collisions in a row vanishingly unlikely
	assert.Greater(t, len(seen), 1)
}
