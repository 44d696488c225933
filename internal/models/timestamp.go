// internal/models/timestamp.go
package models

import (
    "fmt"
    "time"
)

// Timestamp is an optional point in time on the wire: "" and null decode to
// the zero value and the zero value encodes as "".
type Timestamp struct {
    time.Time
}

// At wraps t; a zero t stays empty.
func At(t time.Time) Timestamp {
    return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
    if t.IsZero() {
        return []byte(`""`), nil
    }
    return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
    raw := string(data)
    if raw == "null" || raw == `""` {
        t.Time = time.Time{}
        return nil
    }
    if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
        return fmt.Errorf("timestamp must be a string, got %s", raw)
    }
    parsed, err := time.Parse(time.RFC3339Nano, raw[1:len(raw)-1])
    if err != nil {
        return fmt.Errorf("invalid timestamp %s: %w", raw, err)
    }
    t.Time = parsed.UTC()
    return nil
}
