package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexString accepts a JSON string, number or bool and keeps its text form.
// The backend is not consistent about quoting ids, rates and flags.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(data)
	return nil
}

// String returns the text form
func (f FlexString) String() string {
	return string(f)
}

// Int64 parses the value as an integer, returning 0 when it is not one
func (f FlexString) Int64() int64 {
	n, err := strconv.ParseInt(string(f), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Decimal parses the value as a decimal, returning zero when it is empty or
// not a number
func (f FlexString) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(string(f))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Flag is a backend boolean sent as 0/1, "0"/"1" or true/false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(s.String()) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}
