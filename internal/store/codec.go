package store

import (
	"database/sql"
	"fmt"
	"time"
)

// legacyLayouts cover timestamps written by earlier versions of the tool,
// which used a round-trip format without a zone offset.
var legacyLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func encodeTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// decodeTime parses a stored timestamp. Fractional seconds of any precision
// are accepted; values without an offset are read as local time.
func decodeTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// isLegacyNoDueDate reports whether t is the minimum-date placeholder older
// databases stored instead of NULL.
func isLegacyNoDueDate(t time.Time) bool {
	y, m, d := t.Date()
	return y == 1 && m == time.January && d == 1
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
