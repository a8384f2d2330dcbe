package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildAttestationSameMinute(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

	a := BuildAttestation("TokenABC", base.Add(5*time.Second))
	b := BuildAttestation("TokenABC", base.Add(59*time.Second+999*time.Millisecond))

	assert.Equal(t, a, b)
	assert.Equal(t,
		"Welcome to DEX-Book!\n\nToken Address: TokenABC\n\nTimestamp: Sat Mar 14 2026 09:26:00 GMT+0000",
		a)
}

func TestBuildAttestationDifferentMinutes(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 26, 30, 0, time.UTC)

	a := strings.Split(BuildAttestation("TokenABC", base), "\n")
	b := strings.Split(BuildAttestation("TokenABC", base.Add(time.Minute)), "\n")

	assert.Len(t, b, len(a))
	last := len(a) - 1
	assert.Equal(t, a[:last], b[:last], "only the timestamp line changes")
	assert.NotEqual(t, a[last], b[last])
}

func TestAttestationTimeNormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2026, 3, 14, 18, 26, 41, 5, loc)

	got := AttestationTime(local)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC), got)
}
