// internal/utils/flex.go
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %q", raw)
	}
	*f = FlexFloat(v)
	return nil
}

// FlexID decodes a row id from a JSON number or a numeric string.
type FlexID uint

func (id *FlexID) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	raw, err := unquoteNumber(data)
	if err != nil {
		return err
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*id = FlexID(v)
	return nil
}

func unquoteNumber(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
