package googlepay

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RawConfig wraps an untyped, string-keyed configuration map.
// Keys are case-sensitive. A key holding nil is treated as absent.
//
// Unlike a lenient accessor, every typed read reports a *FieldError when the
// key is missing or holds the wrong type. Callers decide which keys have
// defaults.
type RawConfig struct {
	data map[string]any
}

// NewRawConfig creates a RawConfig from the given map.
// If data is nil, an empty RawConfig is returned.
func NewRawConfig(data map[string]any) RawConfig {
	if data == nil {
		data = make(map[string]any)
	}
	return RawConfig{data: data}
}

// Has reports whether key is present with a non-nil value.
func (c RawConfig) Has(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Len returns the number of keys present, including nil-valued ones.
func (c RawConfig) Len() int {
	return len(c.data)
}

func (c RawConfig) lookup(key string) (any, bool) {
	v, ok := c.data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Map returns the nested map stored at key.
func (c RawConfig) Map(key string) (RawConfig, error) {
	v, ok := c.lookup(key)
	if !ok {
		return RawConfig{}, missingKey(key, "map")
	}
	switch m := v.(type) {
	case map[string]any:
		return NewRawConfig(m), nil
	case RawConfig:
		return m, nil
	}
	return RawConfig{}, wrongType(key, "map", v)
}

// Bool returns the boolean stored at key.
func (c RawConfig) Bool(key string) (bool, error) {
	v, ok := c.lookup(key)
	if !ok {
		return false, missingKey(key, "boolean")
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "boolean", v)
	}
	return b, nil
}

// Int returns the integer stored at key.
//
// Accepts:
//   - any signed or unsigned Go integer that fits in int
//   - float64: only if there is no fractional part (JSON numbers)
//   - json.Number: only if it parses as an integer
func (c RawConfig) Int(key string) (int, error) {
	v, ok := c.lookup(key)
	if !ok {
		return 0, missingKey(key, "integer")
	}
	n, ok := toInt(v)
	if !ok {
		return 0, wrongType(key, "integer", v)
	}
	return n, nil
}

// String returns the string stored at key.
func (c RawConfig) String(key string) (string, error) {
	v, ok := c.lookup(key)
	if !ok {
		return "", missingKey(key, "string")
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// OptionalString returns the string stored at key, or nil if the key is absent.
func (c RawConfig) OptionalString(key string) (*string, error) {
	if !c.Has(key) {
		return nil, nil
	}
	s, err := c.String(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Strings returns the array stored at key with every element converted to its
// string form. A nil element becomes the literal "null".
func (c RawConfig) Strings(key string) ([]string, error) {
	v, ok := c.lookup(key)
	if !ok {
		return nil, missingKey(key, "array")
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []any:
		out := make([]string, len(list))
		for i, elem := range list {
			out[i] = stringify(elem)
		}
		return out, nil
	}
	return nil, wrongType(key, "array", v)
}

// stringify mirrors implicit string conversion of array elements,
// including "null" for missing entries.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int8:
		return int(val), true
	case int16:
		return int(val), true
	case int32:
		return int(val), true
	case int64:
		if val < math.MinInt || val > math.MaxInt {
			return 0, false
		}
		return int(val), true
	case uint8:
		return int(val), true
	case uint16:
		return int(val), true
	case uint32:
		return int(val), true
	case uint:
		if uint64(val) > math.MaxInt {
			return 0, false
		}
		return int(val), true
	case uint64:
		if val > math.MaxInt {
			return 0, false
		}
		return int(val), true
	case float64:
		// Only convert if there's no fractional part
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int(val), true
		}
	case json.Number:
		if n, err := strconv.Atoi(val.String()); err == nil {
			return n, true
		}
	}
	return 0, false
}
