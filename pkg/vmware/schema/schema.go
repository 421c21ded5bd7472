package schema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/golang/glog"
	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/mapstructure"
)

// Schema is used to describe the structure of a value.
//
// Read the documentation of the struct elements for important details.
type Schema struct {
	// Type is the type of the value and must be one of the ValueType values.
	//
	// The type determines what is accepted as input and what Validate
	// decodes the value to:
	//
	//   TypeBool - bool
	//   TypeInt - int
	//   TypeFloat - float64
	//   TypeString - string
	//
	Type ValueType

	// If Required is set, the value must be present in the property map.
	// Otherwise it is optional.
	Required bool

	// If this is non-nil, then this will be a default value that is used
	// when this item is not set in the property map. Default cannot be set
	// together with Required.
	Default interface{}

	// Description is used as the description for docs and CLI help. It should
	// be relatively short.
	Description string

	// ValidateFunc allows individual fields to define arbitrary validation
	// logic. It is yielded the decoded value, which is guaranteed to be of
	// the proper Schema type, and it can yield warnings or errors based on
	// inspection of that value.
	ValidateFunc SchemaValidateFunc
}

// SchemaValidateFunc is a function used to validate a single field in the
// schema.
type SchemaValidateFunc func(interface{}, string) ([]string, []error)

func (s *Schema) GoString() string {
	return fmt.Sprintf("*%#v", *s)
}

// DefaultValue returns the default value of the schema, or nil if there is
// none.
func (s *Schema) DefaultValue() interface{} {
	return s.Default
}

// ZeroValue returns a zero value for the schema.
func (s *Schema) ZeroValue() interface{} {
	return s.Type.Zero()
}

// Decode weakly decodes raw into the Go type of the schema, so that "16" and
// 16 are both accepted for a TypeInt.
func (s *Schema) Decode(k string, raw interface{}) (interface{}, error) {
	// Catch if the user gave a complex type where a primitive was
	// expected, so we can return a friendly error message that
	// doesn't contain Go type system terminology.
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Slice:
		return nil, fmt.Errorf("%s must be a single value, not a list", k)
	case reflect.Map:
		return nil, fmt.Errorf("%s must be a single value, not a map", k)
	}

	var err error
	var decoded interface{}
	switch s.Type {
	case TypeBool:
		var n bool
		err = mapstructure.WeakDecode(raw, &n)
		decoded = n
	case TypeInt:
		var n int
		err = mapstructure.WeakDecode(raw, &n)
		decoded = n
	case TypeFloat:
		var n float64
		err = mapstructure.WeakDecode(raw, &n)
		decoded = n
	case TypeString:
		var n string
		err = mapstructure.WeakDecode(raw, &n)
		decoded = n
	default:
		panic(fmt.Sprintf("Unknown validation type: %#v", s.Type))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %s", k, err)
	}
	return decoded, nil
}

// Validate decodes raw and runs the ValidateFunc of the schema on the decoded
// value. A nil value is always valid.
func (s *Schema) Validate(k string, raw interface{}) ([]string, []error) {
	if raw == nil {
		return nil, nil
	}
	decoded, err := s.Decode(k, raw)
	if err != nil {
		return nil, []error{err}
	}
	if s.ValidateFunc != nil {
		return s.ValidateFunc(decoded, k)
	}
	return nil, nil
}

// Map is a set of schemas keyed by property name.
type Map map[string]*Schema

// Keys returns the property names in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply validates the property map raw against the schemas. Unknown keys and
// missing required keys are reported. The returned map is a copy of raw with
// defaults filled in and all values decoded to their schema type; raw itself
// is left untouched. The prefix is put in front of every key in messages.
func (m Map) Apply(prefix string, raw map[string]interface{}) (map[string]interface{}, []string, []error) {
	var warns []string
	var errs []error

	c, err := copystructure.Copy(raw)
	if err != nil {
		return nil, nil, []error{fmt.Errorf("%serror copying properties: %s", prefix, err)}
	}
	props, _ := c.(map[string]interface{})
	if props == nil {
		props = make(map[string]interface{})
	}

	unknown := make([]string, 0)
	for k := range props {
		if _, ok := m[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, fmt.Errorf("%s%s: unknown property", prefix, k))
		delete(props, k)
	}

	for _, k := range m.Keys() {
		s := m[k]
		v, ok := props[k]
		if !ok || v == nil {
			if s.Required {
				errs = append(errs, fmt.Errorf("%s%s: required property is not set", prefix, k))
				continue
			}
			if d := s.DefaultValue(); d != nil {
				glog.V(5).Infof("[DEBUG] Apply: using default %v for %s%s", d, prefix, k)
				v = d
			} else {
				delete(props, k)
				continue
			}
		}
		w, e := s.Validate(prefix+k, v)
		warns = append(warns, w...)
		errs = append(errs, e...)
		if len(e) > 0 {
			continue
		}
		decoded, err := s.Decode(prefix+k, v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		props[k] = decoded
	}
	return props, warns, errs
}
