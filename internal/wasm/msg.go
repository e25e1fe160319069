package wasm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// ParseError reports a message that does not decode into the target type.
type ParseError struct {
	Target string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error parsing into type %s: %v", e.Target, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeVariant decodes raw into v, a pointer to a struct whose fields are
// all pointers (one per message variant), and checks that exactly one
// variant is set. Unknown variants are rejected.
func DecodeVariant(raw json.RawMessage, v any) error {
	rv := reflect.ValueOf(v)
	target := rv.Type().String()

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ParseError{Target: target, Err: err}
	}

	set := 0
	s := rv.Elem()
	for i := 0; i < s.NumField(); i++ {
		if f := s.Field(i); f.Kind() == reflect.Pointer && !f.IsNil() {
			set++
		}
	}
	if set != 1 {
		return &ParseError{Target: target, Err: fmt.Errorf("expected exactly one variant, got %d", set)}
	}
	return nil
}

// Decode decodes a plain (non-variant) message.
func Decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{Target: reflect.TypeOf(v).String(), Err: err}
	}
	return nil
}
