package rules

import "reflect"

// typeOf returns the reflect.Type for T, including interface types, via the
// standard (*T)(nil) trick.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
