package googlepay

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRawConfigNilIsAbsent(t *testing.T) {
	c := NewRawConfig(map[string]any{"present": "x", "null": nil})

	if !c.Has("present") {
		t.Error("Has(present) = false, want true")
	}
	if c.Has("null") {
		t.Error("Has(null) = true, want false")
	}
	if c.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	if NewRawConfig(nil).Has("anything") {
		t.Error("empty RawConfig reports keys")
	}
}

func TestRawConfigInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
		ok    bool
	}{
		{"int", 3, 3, true},
		{"int64", int64(1), 1, true},
		{"uint8", uint8(3), 3, true},
		{"float64 integral", float64(3), 3, true},
		{"float64 fractional", 3.5, 0, false},
		{"json.Number", json.Number("1"), 1, true},
		{"json.Number fractional", json.Number("1.5"), 0, false},
		{"string", "3", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRawConfig(map[string]any{"k": tt.value}).Int("k")
			if tt.ok {
				if err != nil {
					t.Fatalf("Int() error: %v", err)
				}
				if got != tt.want {
					t.Errorf("Int() = %d, want %d", got, tt.want)
				}
				return
			}
			if !errors.Is(err, ErrWrongType) {
				t.Errorf("Int() error = %v, want ErrWrongType", err)
			}
		})
	}
}

func TestRawConfigStrings(t *testing.T) {
	c := NewRawConfig(map[string]any{
		"mixed":  []any{"a", nil, true, float64(2), json.Number("7")},
		"typed":  []string{"x", "y"},
		"scalar": "a",
	})

	got, err := c.Strings("mixed")
	if err != nil {
		t.Fatalf("Strings(mixed) error: %v", err)
	}
	want := []string{"a", "null", "true", "2", "7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strings(mixed) = %v, want %v", got, want)
	}

	typed, err := c.Strings("typed")
	if err != nil {
		t.Fatalf("Strings(typed) error: %v", err)
	}
	typed[0] = "changed"
	again, _ := c.Strings("typed")
	if again[0] != "x" {
		t.Error("Strings() returned a slice aliasing the raw config")
	}

	if _, err := c.Strings("scalar"); !errors.Is(err, ErrWrongType) {
		t.Errorf("Strings(scalar) error = %v, want ErrWrongType", err)
	}
	if _, err := c.Strings("missing"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("Strings(missing) error = %v, want ErrMissingKey", err)
	}
}

func TestRawConfigMap(t *testing.T) {
	nested := NewRawConfig(map[string]any{"a": true})
	c := NewRawConfig(map[string]any{
		"plain":   map[string]any{"a": true},
		"wrapped": nested,
		"bad":     []any{},
	})

	for _, key := range []string{"plain", "wrapped"} {
		m, err := c.Map(key)
		if err != nil {
			t.Fatalf("Map(%s) error: %v", key, err)
		}
		if v, _ := m.Bool("a"); !v {
			t.Errorf("Map(%s).Bool(a) = false, want true", key)
		}
	}

	if _, err := c.Map("bad"); !errors.Is(err, ErrWrongType) {
		t.Errorf("Map(bad) error = %v, want ErrWrongType", err)
	}
}

func TestFieldErrorMessage(t *testing.T) {
	_, err := NewRawConfig(nil).Bool("emailRequired")
	if err == nil || err.Error() != "emailRequired: missing key" {
		t.Errorf("missing key message = %v", err)
	}

	_, err = NewRawConfig(map[string]any{"emailRequired": "yes"}).Bool("emailRequired")
	if err == nil || err.Error() != "emailRequired: wrong type: want boolean, got string" {
		t.Errorf("wrong type message = %v", err)
	}
}
