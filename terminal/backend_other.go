//go:build !unix

package terminal

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by NewBackend on platforms without a terminal backend
var ErrUnsupported = errors.New("unsupported platform")

// NewBackend reports that no backend exists for this platform
func NewBackend(name string) (Backend, error) {
	return nil, fmt.Errorf("backend %q: %w", name, ErrUnsupported)
}
