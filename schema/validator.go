package schema

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glimte/hookable-go/contracts"
	"github.com/google/uuid"
)

// Violation codes
const (
	CodeRequired     = "REQUIRED"
	CodeTypeMismatch = "TYPE_MISMATCH"
	CodeMinLength    = "MIN_LENGTH_VIOLATION"
	CodeMaxLength    = "MAX_LENGTH_VIOLATION"
	CodeMinimum      = "MINIMUM_VIOLATION"
	CodeMaximum      = "MAXIMUM_VIOLATION"
	CodeEnum         = "ENUM_VIOLATION"
	CodeFormat       = "FORMAT_VIOLATION"
	CodePattern      = "PATTERN_VIOLATION"
)

// ErrInvalidSchema is returned when a schema cannot be compiled
var ErrInvalidSchema = errors.New("schema: invalid schema")

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Violation is a single failed rule
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Value   any    `json:"value,omitempty"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("field '%s': %s", v.Field, v.Message)
}

// Error lists every violation found in one value
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a violation with code was found
func (e *Error) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Validator checks member values against a compiled schema. It implements
// interceptors.Validator.
type Validator struct {
	schema   *Schema
	patterns map[string]*regexp.Regexp
}

// NewValidator compiles s. Invalid patterns and unknown types are rejected.
func NewValidator(s *Schema) (*Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: schema cannot be nil", ErrInvalidSchema)
	}
	v := &Validator{schema: s, patterns: make(map[string]*regexp.Regexp)}
	for _, name := range s.Keys() {
		if err := v.compile(name, s.Properties[name]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (v *Validator) compile(path string, p *Property) error {
	if p == nil {
		return fmt.Errorf("%w: property %s is nil", ErrInvalidSchema, path)
	}
	switch p.Type {
	case "", TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray, TypeObject:
	default:
		return fmt.Errorf("%w: property %s has unknown type %q", ErrInvalidSchema, path, p.Type)
	}
	if p.Pattern != "" {
		if _, ok := v.patterns[p.Pattern]; !ok {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return fmt.Errorf("%w: property %s: %v", ErrInvalidSchema, path, err)
			}
			v.patterns[p.Pattern] = re
		}
	}
	if p.Items != nil {
		if err := v.compile(path+"[]", p.Items); err != nil {
			return err
		}
	}
	for name, child := range p.Properties {
		if err := v.compile(path+"."+name, child); err != nil {
			return err
		}
	}
	return nil
}

// Schema returns the compiled schema
func (v *Validator) Schema() *Schema {
	return v.schema
}

// Validate implements interceptors.Validator. Members the schema does not
// declare are accepted.
func (v *Validator) Validate(_ contracts.Instance, key contracts.Key, value any) error {
	name, ok := key.(string)
	if !ok {
		return nil
	}
	return v.ValidateMember(name, value)
}

// ValidateMember checks value against the rules declared for name
func (v *Validator) ValidateMember(name string, value any) error {
	p, ok := v.schema.Properties[name]
	if !ok {
		return nil
	}

	var found []Violation
	if value == nil {
		if v.schema.IsRequired(name) {
			found = append(found, Violation{Field: name, Message: "value is required", Code: CodeRequired})
		}
	} else {
		found = v.property(name, value, p, found)
	}

	if len(found) == 0 {
		return nil
	}
	return &Error{Violations: found}
}

func (v *Validator) property(path string, value any, p *Property, found []Violation) []Violation {
	if value == nil {
		return found
	}

	if p.Type != "" && !matchesType(value, p.Type) {
		return append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("expected type %s, got %T", p.Type, value),
			Code:    CodeTypeMismatch,
			Value:   value,
		})
	}

	if s, ok := value.(string); ok {
		found = v.checkString(path, s, p, found)
	}
	if n, ok := toFloat(value); ok {
		found = checkNumber(path, n, p, found)
	}

	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && p.Items != nil {
		for i := 0; i < rv.Len(); i++ {
			found = v.property(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface(), p.Items, found)
		}
	}
	if obj, ok := value.(map[string]any); ok && p.Properties != nil {
		found = v.object(path, obj, p, found)
	}

	if len(p.Enum) > 0 && !inEnum(value, p.Enum) {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("value is not in allowed enum values: %v", p.Enum),
			Code:    CodeEnum,
			Value:   value,
		})
	}
	return found
}

func (v *Validator) object(path string, obj map[string]any, p *Property, found []Violation) []Violation {
	for _, req := range p.Required {
		if val, ok := obj[req]; !ok || val == nil {
			found = append(found, Violation{
				Field:   path + "." + req,
				Message: "value is required",
				Code:    CodeRequired,
			})
		}
	}
	nested := &Schema{Properties: p.Properties}
	for _, name := range nested.Keys() {
		if val, ok := obj[name]; ok {
			found = v.property(path+"."+name, val, p.Properties[name], found)
		}
	}
	return found
}

func (v *Validator) checkString(path, s string, p *Property, found []Violation) []Violation {
	n := utf8.RuneCountInString(s)
	if p.MinLength != nil && n < *p.MinLength {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("string length %d is less than minimum %d", n, *p.MinLength),
			Code:    CodeMinLength,
			Value:   s,
		})
	}
	if p.MaxLength != nil && n > *p.MaxLength {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("string length %d exceeds maximum %d", n, *p.MaxLength),
			Code:    CodeMaxLength,
			Value:   s,
		})
	}
	if p.Format != "" {
		if msg := checkFormat(s, p.Format); msg != "" {
			found = append(found, Violation{Field: path, Message: msg, Code: CodeFormat, Value: s})
		}
	}
	if re := v.patterns[p.Pattern]; re != nil && !re.MatchString(s) {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("value does not match pattern: %s", p.Pattern),
			Code:    CodePattern,
			Value:   s,
		})
	}
	return found
}

func checkNumber(path string, n float64, p *Property, found []Violation) []Violation {
	if p.Minimum != nil && n < *p.Minimum {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("value %g is less than minimum %g", n, *p.Minimum),
			Code:    CodeMinimum,
			Value:   n,
		})
	}
	if p.Maximum != nil && n > *p.Maximum {
		found = append(found, Violation{
			Field:   path,
			Message: fmt.Sprintf("value %g exceeds maximum %g", n, *p.Maximum),
			Code:    CodeMaximum,
			Value:   n,
		})
	}
	return found
}

// checkFormat returns a message when s does not match format. Unknown
// formats pass.
func checkFormat(s, format string) string {
	switch format {
	case "email":
		if !emailPattern.MatchString(s) {
			return "invalid email format"
		}
	case "uri":
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
			return "invalid URI format"
		}
	case "uuid":
		if _, err := uuid.Parse(s); err != nil {
			return "invalid UUID format"
		}
	case "date":
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return "invalid date format (expected YYYY-MM-DD)"
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return "invalid date-time format (expected RFC 3339)"
		}
	}
	return ""
}

func matchesType(value any, typ string) bool {
	rv := reflect.ValueOf(value)
	switch typ {
	case TypeString:
		return rv.Kind() == reflect.String
	case TypeNumber:
		_, ok := toFloat(value)
		return ok
	case TypeInteger:
		f, ok := toFloat(value)
		return ok && f == float64(int64(f))
	case TypeBoolean:
		return rv.Kind() == reflect.Bool
	case TypeArray:
		return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
	case TypeObject:
		return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct ||
			(rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct)
	}
	return true
}

func toFloat(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// inEnum compares numbers by value so an int matches a decoded float64
func inEnum(value any, enum []any) bool {
	n, numeric := toFloat(value)
	for _, e := range enum {
		if numeric {
			if m, ok := toFloat(e); ok && m == n {
				return true
			}
			continue
		}
		if reflect.DeepEqual(value, e) {
			return true
		}
	}
	return false
}
