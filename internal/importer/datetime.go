// ABOUTME: Timestamp parsing for the export's fixed datetime layout.
// ABOUTME: All instants are reprojected into one configured target time zone.
package importer

import (
	"errors"
	"fmt"
	"time"
)

// timestampLayout matches the export's format, e.g. "2023-12-31 23:59:59 +0000".
const timestampLayout = "2006-01-02 15:04:05 -0700"

// ErrMalformedTimestamp marks a datetime string that does not match the
// export layout. Local to one element, never fatal to the run.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// parseDate parses an export timestamp and reprojects it into loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t.In(loc), nil
}

// parseDateOpt maps an absent timestamp to nil rather than an error.
func parseDateOpt(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
