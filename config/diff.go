package config

import (
	"reflect"
	"strings"
)

// diffEvent compares two config structs field by field. Changed fields are
// reported by their `config` tag name, falling back to the Go field name.
func diffEvent(old, new any) Event {
	evt := Event{OldConfig: old, NewConfig: new}
	if old == nil || new == nil {
		return evt
	}

	oldVal := reflect.Indirect(reflect.ValueOf(old))
	newVal := reflect.Indirect(reflect.ValueOf(new))
	if oldVal.Kind() != reflect.Struct || newVal.Kind() != reflect.Struct || oldVal.Type() != newVal.Type() {
		return evt
	}

	typ := oldVal.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if reflect.DeepEqual(oldVal.Field(i).Interface(), newVal.Field(i).Interface()) {
			continue
		}
		evt.ChangedKeys = append(evt.ChangedKeys, keyName(field))
	}
	return evt
}

func keyName(f reflect.StructField) string {
	if name, _, _ := strings.Cut(f.Tag.Get("config"), ","); name != "" && name != "-" {
		return name
	}
	return f.Name
}
