package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Int64String is an int64 carried as a JSON string, the way grpc-gateway
// renders 64-bit integers ("totalCount": "45"). Plain JSON numbers and null
// are accepted on decode.
type Int64String int64

// Int returns the value as an int.
func (n Int64String) Int() int { return int(n) }

// String implements fmt.Stringer.
func (n Int64String) String() string { return strconv.FormatInt(int64(n), 10) }

// MarshalJSON encodes the value as a quoted decimal string.
func (n Int64String) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(n.String())), nil
}

// UnmarshalJSON accepts "45", 45 and null.
func (n *Int64String) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode int64 string: %w", err)
		}
		if s == "" {
			*n = 0
			return nil
		}
		raw = s
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decode int64 string %q: %w", raw, err)
	}
	*n = Int64String(v)
	return nil
}

// ParseInt64String parses a decimal ID such as a path segment.
func ParseInt64String(s string) (Int64String, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", s, err)
	}
	return Int64String(v), nil
}
