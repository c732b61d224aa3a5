package property

import (
	"errors"
	"fmt"
)

// Sentinel errors; the typed errors below match them with errors.Is.
var (
	// ErrConfiguration marks a malformed or invalid attribute declaration.
	ErrConfiguration = errors.New("property: invalid configuration")

	// ErrMissingColumn marks a field declaration naming an absent column.
	ErrMissingColumn = errors.New("property: missing column")

	// ErrInvalidValue marks a row value that cannot be coerced to the
	// attribute's type.
	ErrInvalidValue = errors.New("property: invalid value")

	// ErrNotResolved is returned when a snapshot lacks an attribute, or
	// holds it with a different value type.
	ErrNotResolved = errors.New("property: attribute not resolved")
)

// ConfigurationError reports a malformed declaration, an unknown attribute
// or a constant that does not fit the attribute. It is raised when the
// declaration is set, never during rendering.
type ConfigurationError struct {
	Attr   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Attr == "" {
		return "property: " + e.Reason
	}
	return fmt.Sprintf("property %q: %s", e.Attr, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// MissingColumnError reports a field declaration whose column is absent
// from the data source at resolve time.
type MissingColumnError struct {
	Attr   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("property %q: column %q not found in source", e.Attr, e.Column)
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }
