// Package validate checks request structs against `validate` struct tags.
//
// Rules are comma-separated:
//
//	required        field must not be zero or blank
//	nullable        if empty, skip the remaining rules
//	email           valid email address
//	uuid            valid UUID
//	numeric         parseable number
//	min=N           string: min length | number: min value
//	max=N           string: max length | number: max value
//	gt=N, gte=N     number bounds
//	in=a|b|c        value must be one of the listed items
//	is=name         value must satisfy a validator added with Register
//
// Numbers include shopspring decimals and anything else exposing
// InexactFloat64. Slices of structs are validated element by element and
// reported as field.N.child.
//
//	type ProductInput struct {
//	    Name  string          `json:"name"  validate:"required,max=120"`
//	    Type  string          `json:"type"  validate:"required,is=product_type"`
//	    Price decimal.Decimal `json:"price" validate:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	customMu sync.RWMutex
	custom   = map[string]func(string) bool{}
)

// Register adds a named predicate usable as is=name. Registering the same
// name again replaces it.
func Register(name string, fn func(string) bool) {
	customMu.Lock()
	defer customMu.Unlock()
	custom[name] = fn
}

func lookup(name string) (func(string) bool, bool) {
	customMu.RLock()
	defer customMu.RUnlock()
	fn, ok := custom[name]
	return fn, ok
}

// Struct validates the exported, tagged fields of v and returns
// field -> message. An empty map means v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	walk(reflect.ValueOf(v), "", errs)
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		value := rv.Field(i)
		name := prefix + jsonFieldName(field)

		if tag := field.Tag.Get("validate"); tag != "" {
			rules := strings.Split(tag, ",")
			if !(hasRule(rules, "nullable") && isEmpty(value)) {
				for _, rule := range rules {
					if rule == "nullable" {
						continue
					}
					if msg := applyRule(strings.TrimSpace(rule), name, value); msg != "" {
						errs[name] = msg
						break
					}
				}
			}
		}

		if value.Kind() == reflect.Slice && elemIsStruct(value.Type().Elem()) {
			for j := 0; j < value.Len(); j++ {
				walk(value.Index(j), fmt.Sprintf("%s.%d.", name, j), errs)
			}
		}
	}
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	raw := stringOf(v)

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "uuid":
		if _, err := uuid.Parse(raw); err != nil {
			return fmt.Sprintf("The %s must be a valid UUID.", field)
		}
	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "min":
		n := parseFloat(param)
		if f, ok := number(v); ok && isNumber(v) {
			if f < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if float64(length(v)) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
	case "max":
		n := parseFloat(param)
		if f, ok := number(v); ok && isNumber(v) {
			if f > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if float64(length(v)) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}
	case "gt":
		if f, _ := number(v); f <= parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if f, _ := number(v); f < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "is":
		fn, ok := lookup(param)
		if !ok || !fn(raw) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
	}

	return ""
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type floater interface{ InexactFloat64() float64 }

func isNumber(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	if !v.CanInterface() {
		return false
	}
	_, ok := v.Interface().(floater)
	return ok
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Ptr:
		if v.IsNil() {
			return 0, false
		}
		return number(v.Elem())
	}
	if v.CanInterface() {
		if f, ok := v.Interface().(floater); ok {
			return f.InexactFloat64(), true
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(stringOf(v)), 64)
	return f, err == nil
}

func length(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len()
	}
	return len([]rune(stringOf(v)))
}

func stringOf(v reflect.Value) string {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	if !v.CanInterface() {
		return ""
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Array, reflect.Struct:
		return v.IsZero()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func elemIsStruct(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
