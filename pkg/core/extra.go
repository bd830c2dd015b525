package core

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
)

// UnmarshalWithExtra decodes data into v and collects every top-level field
// not mapped by v's json tags into extra. Response structs use this so that
// fields the exchange adds over time are kept instead of silently dropped.
// v must be a non-nil pointer to a struct.
func UnmarshalWithExtra(data []byte, v any, extra *map[string]json.RawMessage) error {
	if err := sonic.Unmarshal(data, v); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range jsonFieldNames(reflect.TypeOf(v).Elem()) {
		delete(fields, name)
	}
	if len(fields) > 0 {
		*extra = fields
	}
	return nil
}

func jsonFieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := field.Name
		if tag != "" {
			if comma := strings.IndexByte(tag, ','); comma >= 0 {
				tag = tag[:comma]
			}
			if tag != "" {
				name = tag
			}
		}
		names = append(names, name)
	}
	return names
}
