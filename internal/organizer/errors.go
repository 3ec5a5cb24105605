package organizer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument marks a rejected target path. No filesystem access
	// happens before it is returned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFilesystem marks enumeration, directory creation, collision probing
	// and move failures.
	ErrFilesystem = errors.New("filesystem error")
)

// wrap tags err with marker and adds operation/path context. The underlying
// error stays reachable through errors.Is and errors.As.
func wrap(marker error, operation, path string, err error) error {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if path != "" {
		parts = append(parts, path)
	}
	detail := strings.Join(parts, " ")
	if detail == "" {
		detail = "organize"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
