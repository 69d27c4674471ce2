package shipment

import (
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrackingNumberPrefix is prepended to every generated tracking number
const TrackingNumberPrefix = "PC"

var trackingNumberPattern = regexp.MustCompile(`^PC\d{6}[0-9A-F]{8}$`)

// GenerateTrackingNumber returns PC + YYMMDD + 8 upper-case hex characters
func GenerateTrackingNumber(now time.Time) string {
	id := uuid.New()
	return TrackingNumberPrefix + now.UTC().Format("060102") + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// IsGeneratedTrackingNumber reports whether v has the generated format
func IsGeneratedTrackingNumber(v string) bool {
	return trackingNumberPattern.MatchString(v)
}

// NormalizeTrackingNumber trims and upper-cases a user supplied number
func NormalizeTrackingNumber(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
