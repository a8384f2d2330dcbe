package crypto

import (
	"fmt"
	"time"
)

// TimestampLayout renders like a browser's Date string minus the zone name.
const TimestampLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

// AttestationTime truncates t to the minute in UTC, so every signature made within
// one minute covers the same bytes.
func AttestationTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// BuildAttestation returns the message a wallet signs to prove it owns the request.
func BuildAttestation(address string, now time.Time) string {
	return fmt.Sprintf("Welcome to DEX-Book!\n\nToken Address: %s\n\nTimestamp: %s",
		address, AttestationTime(now).Format(TimestampLayout))
}
