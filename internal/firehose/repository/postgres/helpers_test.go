package postgres

import "reflect"

const testDeployment = "payments-v1"

// assign copies values into the Scan destinations in order.
func assign(values ...any) func(dest ...any) {
	return func(dest ...any) {
		for i, v := range values {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
		}
	}
}
