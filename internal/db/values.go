package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is a rule value. Admin forms post numbers as strings, so it decodes
// from either a JSON number or a numeric string, and always encodes as a number.
type Number float64

// NewNumber returns a pointer to n
func NewNumber(n float64) *Number {
	v := Number(n)
	return &v
}

// Float64 returns the value as a float64
func (n Number) Float64() float64 {
	return float64(n)
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	f, err := parseNumeric(data)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// IntValue is an integer field that accepts a JSON number or numeric string,
// matching the parseInt coercion admin clients rely on.
type IntValue int

// NewIntValue returns a pointer to v
func NewIntValue(v int) *IntValue {
	i := IntValue(v)
	return &i
}

// Int returns the value as an int
func (v IntValue) Int() int {
	return int(v)
}

func (v *IntValue) UnmarshalJSON(data []byte) error {
	f, err := parseNumeric(data)
	if err != nil {
		return err
	}
	*v = IntValue(int(f))
	return nil
}

// IntOr returns v as an int, or def when v is nil
func IntOr(v *IntValue, def int) int {
	if v == nil {
		return def
	}
	return v.Int()
}

func parseNumeric(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("invalid numeric value %q", s)
		}
		return f, nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("invalid numeric value %s", string(data))
	}
	return f, nil
}

// DecodeForm unmarshals a JSON object into dst, treating members whose value
// is the empty string as absent. Admin forms post untouched inputs as "".
func DecodeForm(data []byte, dst any) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for key, raw := range members {
		if isEmptyString(raw) {
			delete(members, key)
		}
	}

	cleaned, err := json.Marshal(members)
	if err != nil {
		return err
	}
	return json.Unmarshal(cleaned, dst)
}

func isEmptyString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	return s == ""
}

// UnmarshalJSON leaves empty rule inputs unset
func (r *ScoreRule) UnmarshalJSON(data []byte) error {
	type plain ScoreRule
	return DecodeForm(data, (*plain)(r))
}

func (r *IncentiveRule) UnmarshalJSON(data []byte) error {
	type plain IncentiveRule
	return DecodeForm(data, (*plain)(r))
}

func (r *AccidentRule) UnmarshalJSON(data []byte) error {
	type plain AccidentRule
	return DecodeForm(data, (*plain)(r))
}

func (r *LeadershipBoardRule) UnmarshalJSON(data []byte) error {
	type plain LeadershipBoardRule
	return DecodeForm(data, (*plain)(r))
}

func (r *HaltRule) UnmarshalJSON(data []byte) error {
	type plain HaltRule
	return DecodeForm(data, (*plain)(r))
}
