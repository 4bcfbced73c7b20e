package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. The backend serialises naive UTC
// datetimes without a zone suffix.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that decodes every datetime format the backend emits.
// Zone-less values are taken as UTC. null and "" decode to the zero time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using the accepted layouts
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Relative formats the time the way the activity feed does: "3d ago", "2h ago",
// "5m ago" or "Just now".
func (t Timestamp) Relative(now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	diff := now.Sub(t.Time)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff >= time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return "Just now"
	}
}
