package domain

import "fmt"

// Kind classifies a domain failure so outer layers can map it to a response
// without parsing messages.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindPermissionDenied Kind = "permission_denied"
	KindUnsupportedUnit  Kind = "unsupported_unit"
	KindNotFound         Kind = "not_found"
	KindRateLimited      Kind = "rate_limited"
	KindConflict         Kind = "conflict"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrUnsupportedUnit  = &Error{Kind: KindUnsupportedUnit}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrConflict         = &Error{Kind: KindConflict}
)

// Error is the machine-readable failure returned by constructors, converters
// and access checks. Field names the offending input for validation errors;
// Permission names the missing permission for denials.
type Error struct {
	Kind       Kind
	Field      string
	Permission Permission
	Message    string
}

func (e *Error) Error() string {
	switch {
	case e.Message == "":
		return string(e.Kind)
	case e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewValidationError reports a field that violates an invariant or bound.
func NewValidationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NewPermissionDenied reports a failed access decision. required is empty for
// customer-scope denials.
func NewPermissionDenied(required Permission, message string) *Error {
	return &Error{Kind: KindPermissionDenied, Permission: required, Message: message}
}

// NewNotFound reports a missing resource.
func NewNotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Field: resource, Message: fmt.Sprintf("%q not found", id)}
}

// NewConflict reports a create that collides with an existing resource.
func NewConflict(field, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: fmt.Sprintf(format, args...)}
}

func unsupportedUnit(field, unit string) *Error {
	return &Error{Kind: KindUnsupportedUnit, Field: field, Message: fmt.Sprintf("unsupported unit %q", unit)}
}
