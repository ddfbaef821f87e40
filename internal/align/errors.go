// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package align

import "fmt"

// InvalidServiceFieldError reports a service field that cannot be used to
// derive a picon name.
type InvalidServiceFieldError struct {
	Field   string
	Value   string
	Service string // service key line
	Err     error
}

func (e *InvalidServiceFieldError) Error() string {
	msg := fmt.Sprintf("align: service %q: invalid %s %q", e.Service, e.Field, e.Value)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *InvalidServiceFieldError) Unwrap() error {
	return e.Err
}
