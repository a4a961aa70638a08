package define

import (
	"fmt"
	"reflect"
	"strings"
)

// tagName is the struct tag consulted by FromStruct.
const tagName = "step"

// FromStruct starts a builder whose contract is derived from T's exported
// fields. The step tag names the key and its role:
//
//	type Transfer struct {
//		From    string `step:"from,in"`
//		Memo    string `step:"memo,in,optional"`
//		Receipt string `step:"receipt,out"`
//	}
//
// An empty key falls back to the lowercased field name. Fields without a
// step tag are ignored. Mixing the derived contract with explicit In, Opt or
// Out calls on the returned builder is a configuration error.
func FromStruct[T any](name string) *Builder {
	b := Unit(name)
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return b.fail(fmt.Errorf("FromStruct requires a struct type, got %s", t.Kind()))
	}
	b.derived = true

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup(tagName)
		if !ok {
			continue
		}
		key, role, optional, err := parseTag(field.Name, tag)
		if err != nil {
			return b.fail(err)
		}
		switch {
		case role == "out":
			b.outs = append(b.outs, key)
		case optional:
			b.opts = append(b.opts, key)
		default:
			b.ins = append(b.ins, key)
		}
	}
	return b
}

func parseTag(fieldName, tag string) (key, role string, optional bool, err error) {
	parts := strings.Split(tag, ",")
	key = parts[0]
	if key == "" {
		key = strings.ToLower(fieldName)
	}
	role = "in"
	for _, part := range parts[1:] {
		switch part {
		case "in", "out":
			role = part
		case "optional":
			optional = true
		default:
			return "", "", false, fmt.Errorf("field %s: unknown %s tag option %q", fieldName, tagName, part)
		}
	}
	if role == "out" && optional {
		return "", "", false, fmt.Errorf("field %s: outputs cannot be optional", fieldName)
	}
	return key, role, optional, nil
}
