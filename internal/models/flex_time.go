package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// GameTimeLayout is the timestamp format used by the game API, e.g. 20240101T120000.000Z
const GameTimeLayout = "20060102T150405.000Z"

// ParseGameTime parses a game API timestamp
func ParseGameTime(s string) (time.Time, error) {
	return time.Parse(GameTimeLayout, s)
}

// FormatGameTime formats t in the game API layout (UTC)
func FormatGameTime(t time.Time) string {
	return t.UTC().Format(GameTimeLayout)
}

// FlexTime is a timestamp that decodes from every shape the trackers have written
// over time: BSON datetimes, unix seconds as int/long/double, and strings in
// RFC3339 or game API layout. It always holds UTC.
type FlexTime struct {
	time.Time
}

// NewFlexTime wraps t
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t.UTC()}
}

// FlexUnix returns a FlexTime for unix seconds
func FlexUnix(sec int64) FlexTime {
	return FlexTime{Time: time.Unix(sec, 0).UTC()}
}

// MarshalBSONValue stores the time as a BSON datetime
func (t FlexTime) MarshalBSONValue() (byte, []byte, error) {
	typ, data, err := bson.MarshalValue(t.Time)
	return byte(typ), data, err
}

// UnmarshalBSONValue implements lenient decoding; unknown shapes leave the zero time.
func (t *FlexTime) UnmarshalBSONValue(typ byte, data []byte) error {
	rv := bson.RawValue{Type: bson.Type(typ), Value: data}

	switch rv.Type {
	case bson.TypeDateTime:
		if ms, ok := rv.DateTimeOK(); ok {
			t.Time = time.UnixMilli(ms).UTC()
		}
	case bson.TypeInt32:
		if v, ok := rv.Int32OK(); ok {
			t.Time = time.Unix(int64(v), 0).UTC()
		}
	case bson.TypeInt64:
		if v, ok := rv.Int64OK(); ok {
			t.Time = time.Unix(v, 0).UTC()
		}
	case bson.TypeDouble:
		if v, ok := rv.DoubleOK(); ok {
			t.Time = unixFloat(v)
		}
	case bson.TypeString:
		if s, ok := rv.StringValueOK(); ok {
			parsed, err := parseFlexString(s)
			if err != nil {
				return err
			}
			t.Time = parsed
		}
	case bson.TypeNull, bson.TypeUndefined:
		t.Time = time.Time{}
	default:
		return fmt.Errorf("flex time: unsupported bson type %v", rv.Type)
	}
	return nil
}

// MarshalJSON writes RFC3339
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

// UnmarshalJSON accepts a quoted timestamp or unix seconds
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		t.Time = time.Time{}
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flex time: %w", err)
		}
		parsed, err := parseFlexString(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("flex time: %w", err)
	}
	t.Time = unixFloat(f)
	return nil
}

func parseFlexString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := ParseGameTime(s); err == nil {
		return ts, nil
	}
	// Numeric strings are unix seconds
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return unixFloat(f), nil
	}
	return time.Time{}, fmt.Errorf("flex time: unrecognized timestamp %q", s)
}

func unixFloat(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}
