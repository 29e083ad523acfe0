// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package library

import (
	"errors"
	"fmt"
)

// NotAttachableError is returned when a library has neither a local
// installation nor a configured remote URL, so no servable asset path can be
// derived for it.
type NotAttachableError struct {
	Library string
}

func (e *NotAttachableError) Error() string {
	if e.Library == "" {
		return "library is not attachable: no local installation or remote URL"
	}
	return fmt.Sprintf("library %q is not attachable: no local installation or remote URL", e.Library)
}

// IsNotAttachable reports whether err is a NotAttachableError.
func IsNotAttachable(err error) bool {
	var na *NotAttachableError
	return errors.As(err, &na)
}
