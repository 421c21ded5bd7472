package schema

import "fmt"

// ValueType is an enum of the type that can be represented by a schema.
type ValueType int

const (
	TypeInvalid ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
)

func (t ValueType) String() string {
	switch t {
	case TypeInvalid:
		return "TypeInvalid"
	case TypeBool:
		return "TypeBool"
	case TypeInt:
		return "TypeInt"
	case TypeFloat:
		return "TypeFloat"
	case TypeString:
		return "TypeString"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// Zero returns the zero value for a type.
func (t ValueType) Zero() interface{} {
	switch t {
	case TypeInvalid:
		return nil
	case TypeBool:
		return false
	case TypeInt:
		return 0
	case TypeFloat:
		return 0.0
	case TypeString:
		return ""
	default:
		panic(fmt.Sprintf("unknown type %s", t))
	}
}
