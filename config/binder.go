package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder decodes map[string]any data into Go structs and validates the result.
//
// Decoding uses mapstructure with weak typing, so the string values produced
// by the env and cli sources convert into ints, bools and durations. Fields
// are mapped by their `config` tag and validated by their `validate` tag.
// Validation errors name fields by their config key ("redirect.baseURL")
// rather than by Go field name.
type Binder struct {
	validator *validator.Validate
}

// BindError represents an error that occurred during the bind or validate stage.
type BindError struct {
	// Stage is "decode" or "validate".
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// NewBinder creates a Binder with the duration and comma-slice decode hooks.
func NewBinder() *Binder {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("config"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Binder{validator: v}
}

// Bind decodes source into target (a pointer to a struct) and validates it.
// The target may be partially populated when validation fails.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validate(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(source)
}

func (b *Binder) validate(target any) error {
	return b.validator.Struct(target)
}
