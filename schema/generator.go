package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TagName is the struct tag read by FromStruct
const TagName = "hookable"

var timeType = reflect.TypeOf(time.Time{})

// FromStruct derives a schema from the exported fields of a struct or
// struct pointer. Property names are the Go field names, matching the
// member keys of proxy.Struct. Rules come from the `hookable` tag:
//
//	Email string `hookable:"required,format=email,maxLength=120"`
//	Role  string `hookable:"enum=admin|user"`
//	Age   int    `hookable:"minimum=0,maximum=150"`
//
// A field tagged "-" is skipped.
func FromStruct(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: expected a struct, got %T", ErrInvalidSchema, v)
	}

	s := &Schema{Name: t.Name(), Properties: make(map[string]*Property)}
	seen := map[reflect.Type]bool{t: true}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		p := propertyFor(f.Type, seen)
		required, err := applyTag(p, tag)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidSchema, f.Name, err)
		}
		if required {
			s.Required = append(s.Required, f.Name)
		}
		s.Properties[f.Name] = p
	}
	return s, nil
}

func propertyFor(t reflect.Type, seen map[reflect.Type]bool) *Property {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &Property{Type: TypeString}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Property{Type: TypeInteger}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Property{Type: TypeInteger, Minimum: Float(0)}
	case reflect.Float32, reflect.Float64:
		return &Property{Type: TypeNumber}
	case reflect.Bool:
		return &Property{Type: TypeBoolean}
	case reflect.Slice, reflect.Array:
		return &Property{Type: TypeArray, Items: propertyFor(t.Elem(), seen)}
	case reflect.Map:
		return &Property{Type: TypeObject}
	case reflect.Struct:
		if t == timeType {
			return &Property{}
		}
		if seen[t] {
			return &Property{Type: TypeObject}
		}
		seen[t] = true
		defer delete(seen, t)
		return &Property{Type: TypeObject, Description: t.Name()}
	}
	return &Property{}
}

// applyTag reads the rules in tag into p and reports whether the field is
// required
func applyTag(p *Property, tag string) (bool, error) {
	if tag == "" {
		return false, nil
	}

	required := false
	for _, part := range strings.Split(tag, ",") {
		name, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch name {
		case "":
		case "required":
			required = true
		case "format":
			p.Format = value
		case "pattern":
			p.Pattern = value
		case "enum":
			for _, e := range strings.Split(value, "|") {
				p.Enum = append(p.Enum, enumValue(p.Type, e))
			}
		case "minLength", "maxLength":
			n, err := strconv.Atoi(value)
			if err != nil {
				return false, fmt.Errorf("%s: %w", name, err)
			}
			if name == "minLength" {
				p.MinLength = Int(n)
			} else {
				p.MaxLength = Int(n)
			}
		case "minimum", "maximum":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false, fmt.Errorf("%s: %w", name, err)
			}
			if name == "minimum" {
				p.Minimum = Float(f)
			} else {
				p.Maximum = Float(f)
			}
		default:
			return false, fmt.Errorf("unknown rule %q", name)
		}
	}
	return required, nil
}

func enumValue(typ, s string) any {
	switch typ {
	case TypeInteger, TypeNumber:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case TypeBoolean:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
