package whatsapp

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nimasrn/clinic-whatsapp/internal/model"
)

var errUnknownLayout = errors.New("no known timestamp layout matches")

// TimestampParseError reports a message record whose send time is not a
// point in time.
type TimestampParseError struct {
	RecordID int64
	Value    string
	Err      error
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("message %d: cannot parse sent_at %q: %v", e.RecordID, e.Value, e.Err)
}

func (e *TimestampParseError) Unwrap() error { return e.Err }

// Layouts without a zone are read as UTC.
var sentAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseSentAt parses a serialized send time, keeping sub-second precision.
func ParseSentAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range sentAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnknownLayout
}

type sortKey struct {
	at     time.Time
	record model.MessageRecord
}

// SortDescending returns a new slice ordered by send time, most recent first.
// Records sent at the same instant are ordered by ID, highest first; exact
// duplicates keep their input order. The input is never modified.
func SortDescending(records []model.MessageRecord) ([]model.MessageRecord, error) {
	keys := make([]sortKey, len(records))
	for i, r := range records {
		at, err := ParseSentAt(r.SentAt)
		if err != nil {
			return nil, &TimestampParseError{RecordID: r.ID, Value: r.SentAt, Err: err}
		}
		keys[i] = sortKey{at: at, record: r}
	}

	slices.SortStableFunc(keys, func(a, b sortKey) int {
		if c := b.at.Compare(a.at); c != 0 {
			return c
		}
		return cmp.Compare(b.record.ID, a.record.ID)
	})

	out := make([]model.MessageRecord, len(keys))
	for i, k := range keys {
		out[i] = k.record
	}
	return out, nil
}
