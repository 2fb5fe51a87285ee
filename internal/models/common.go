package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that the API may encode as a JSON number or as a
// numeric string. Empty strings and null decode to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("cannot parse %q as integer: %w", s, err)
		}
		*f = FlexInt(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Int returns the plain integer value.
func (f FlexInt) Int() int {
	return int(f)
}

func (f FlexInt) String() string {
	return strconv.Itoa(int(f))
}

// NormalizeCollection decodes a response that is sometimes a JSON array and
// sometimes an id-keyed JSON object into a flat slice. Object values come
// back in undefined order.
func NormalizeCollection[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" || string(data) == "false" {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("error decoding collection array: %w", err)
		}
		return items, nil
	case '{':
		var keyed map[string]T
		if err := json.Unmarshal(data, &keyed); err != nil {
			return nil, fmt.Errorf("error decoding collection object: %w", err)
		}
		items := make([]T, 0, len(keyed))
		for _, item := range keyed {
			items = append(items, item)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected collection shape: %s", truncate(string(data), 80))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
