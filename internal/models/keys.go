// ABOUTME: Canonical timestamp rendering for identity keys.
// ABOUTME: Keys normalize to UTC so dedup survives a change of configured zone.
package models

import "time"

// KeyTime renders an instant for identity-key comparison. Keys always
// normalize to UTC: stored columns keep the run's configured zone, but the
// same instant must key identically no matter which zone a later run uses.
func KeyTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NormalizeKeyTime reprojects a stored RFC 3339 column value into the
// canonical key zone.
func NormalizeKeyTime(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return KeyTime(t), nil
}
