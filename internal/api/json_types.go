package api

import (
	"bytes"
	"encoding/json"
	"errors"
)

var jsonNull = []byte("null")

// optionalString remembers whether a field was sent at all, and whether it was
// sent as null, so PATCH bodies can clear values.
type optionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (value *optionalString) UnmarshalJSON(data []byte) error {
	value.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		value.Null = true
		value.Value = ""
		return nil
	}
	return json.Unmarshal(data, &value.Value)
}

// Ptr maps absent to nil and null to the empty string.
func (value optionalString) Ptr() *string {
	if !value.Set {
		return nil
	}
	result := value.Value
	return &result
}

// decimalInput accepts a JSON number or a numeric string.
type decimalInput struct {
	Set   bool
	Null  bool
	Value string
}

func (value *decimalInput) UnmarshalJSON(data []byte) error {
	value.Set = true
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, jsonNull):
		value.Null = true
		value.Value = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		return json.Unmarshal(trimmed, &value.Value)
	default:
		var number json.Number
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.UseNumber()
		if err := decoder.Decode(&number); err != nil {
			return errors.New("expected a number")
		}
		value.Value = number.String()
		return nil
	}
}

func (value decimalInput) Ptr() *string {
	if !value.Set {
		return nil
	}
	result := value.Value
	return &result
}

func (value decimalInput) String() string {
	return value.Value
}
