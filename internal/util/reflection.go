// Package util provides utility functions for reflection and struct operations.
package util

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TagName is the struct tag read for property overrides.
//
// Supported formats:
//   - `torpedo:"name"` -> property is exposed as "name"
//   - `torpedo:"-"`    -> field is not navigable
const TagName = "torpedo"

var timeType = reflect.TypeOf(time.Time{})

// Property describes a navigable field of an entity.
type Property struct {
	Field      string       // Go field name
	Name       string       // Query-language property name
	Type       reflect.Type // Element type (pointers and slices unwrapped)
	Entity     bool         // Navigation reaches another entity
	Collection bool         // Field is a slice, array or map of values
}

// EntityInfo holds the mapping of a Go struct used as a query root or join target.
type EntityInfo struct {
	Type       reflect.Type
	Name       string // Mapping name used in the from clause
	Properties []*Property

	byField map[string]*Property
	byName  map[string]*Property
}

// Property finds a property by Go field name or by query-language name.
func (e *EntityInfo) Property(name string) (*Property, bool) {
	if p, ok := e.byField[name]; ok {
		return p, true
	}
	p, ok := e.byName[name]
	return p, ok
}

// Indirect unwraps pointer types until a non-pointer type is reached.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IsEntityType reports whether values of t are navigated as entities.
// time.Time is a struct but is treated as a scalar value.
func IsEntityType(t reflect.Type) bool {
	t = Indirect(t)
	return t.Kind() == reflect.Struct && t != timeType
}

// InspectEntity builds the EntityInfo for a struct type.
// Embedded structs are flattened, mirroring field promotion.
func InspectEntity(t reflect.Type) (*EntityInfo, error) {
	if t == nil {
		return nil, errors.New("InspectEntity: nil type")
	}
	t = Indirect(t)
	if !IsEntityType(t) {
		return nil, errors.New("InspectEntity: " + t.String() + " is not a struct")
	}

	info := &EntityInfo{
		Type:    t,
		Name:    entityName(t),
		byField: make(map[string]*Property),
		byName:  make(map[string]*Property),
	}
	collectProperties(info, t)

	return info, nil
}

// collectProperties walks exported fields in declaration order.
func collectProperties(info *EntityInfo, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && IsEntityType(field.Type) {
			collectProperties(info, Indirect(field.Type))
			continue
		}
		if !field.IsExported() {
			continue
		}

		name := PropertyName(field.Name)
		if tag := strings.TrimSpace(field.Tag.Get(TagName)); tag != "" {
			if tag == "-" {
				continue
			}
			name = tag
		}

		// Outer fields shadow promoted ones.
		if _, exists := info.byField[field.Name]; exists {
			continue
		}

		elem, collection := elementType(field.Type)
		p := &Property{
			Field:      field.Name,
			Name:       name,
			Type:       elem,
			Entity:     IsEntityType(elem),
			Collection: collection,
		}
		info.Properties = append(info.Properties, p)
		info.byField[p.Field] = p
		info.byName[p.Name] = p
	}
}

// elementType unwraps pointers and collections to the navigated element type.
func elementType(t reflect.Type) (reflect.Type, bool) {
	t = Indirect(t)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		// []byte is a scalar value, not a collection.
		if t.Elem().Kind() == reflect.Uint8 {
			return t, false
		}
		return Indirect(t.Elem()), true
	case reflect.Map:
		return Indirect(t.Elem()), true
	default:
		return t, false
	}
}

// entityName determines the mapping name from an EntityName() method,
// falling back to the simple type name.
func entityName(t reflect.Type) string {
	if en, ok := reflect.New(t).Interface().(interface{ EntityName() string }); ok {
		if name := en.EntityName(); name != "" {
			return name
		}
	}
	return t.Name()
}

// PropertyName converts a Go field name to a bean-style property name.
// Names starting with two upper-case letters (ID, URL) are kept as-is.
func PropertyName(field string) string {
	if len(field) > 1 && unicode.IsUpper(rune(field[0])) && unicode.IsUpper(rune(field[1])) {
		return field
	}
	return LowerFirst(field)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
