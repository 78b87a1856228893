package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// LocalLayout is the zone-less timestamp format the API speaks in both directions.
const LocalLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	LocalLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a point in time decoded from the API. Zone-less values are
// interpreted in the server's local time zone. A missing or null value
// decodes to the zero Timestamp.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses RFC 3339 or one of the zone-less layouts in loc.
func ParseTimestamp(s string, loc *time.Location) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{t}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// epoch millis
		ms, perr := strconv.ParseInt(string(data), 10, 64)
		if perr != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		*ts = Timestamp{time.UnixMilli(ms)}
		return nil
	}
	parsed, err := ParseTimestamp(s, time.Local)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Local().Format(LocalLayout))
}

// ID is an identifier the API sends either as a JSON number or a string.
// It is kept in its canonical decimal string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Int64 returns the numeric form of the id.
func (id ID) Int64() (int64, error) {
	return strconv.ParseInt(string(id), 10, 64)
}
