package structure

import (
	"fmt"
	"math"
	"reflect"
)

// BoolPtr makes a *bool out of the value passed in through v.
//
// vSphere uses nil values in bools to omit values in the SOAP XML request, and
// helps denote inheritance in certain cases.
func BoolPtr(v bool) *bool {
	return &v
}

// Int32Ptr makes an *int32 out of the value passed in through v.
func Int32Ptr(v int32) *int32 {
	return &v
}

// ByteToGiB returns n/1024^3. The input must be an integer that can be
// appropriately divisible.
//
// Remember that int32 overflows at approximately 2GiB, so any values higher
// than that will produce an inaccurate result.
func ByteToGiB(n interface{}) interface{} {
	switch v := n.(type) {
	case int:
		return v / int(math.Pow(1024, 3))
	case int32:
		return v / int32(math.Pow(1024, 3))
	case int64:
		return v / int64(math.Pow(1024, 3))
	}
	panic(fmt.Errorf("non-integer type %T for value", n))
}

// GiBToByte returns n*1024^3.
//
// The output is returned as int64 - if another type is needed, it needs to be
// cast.
func GiBToByte(n interface{}) int64 {
	switch v := n.(type) {
	case int:
		return int64(v) * int64(math.Pow(1024, 3))
	case int32:
		return int64(v) * int64(math.Pow(1024, 3))
	case int64:
		return v * int64(math.Pow(1024, 3))
	}
	panic(fmt.Errorf("non-integer type %T for value", n))
}

// GiBToKB returns n*1024^2, the unit of VirtualDisk.CapacityInKB.
func GiBToKB(n interface{}) int64 {
	return GiBToByte(n) / 1024
}

// DeRef returns the value pointed to by the interface if the interface is a
// pointer and is not nil, otherwise returns nil, or the direct value if it's
// not a pointer.
func DeRef(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
