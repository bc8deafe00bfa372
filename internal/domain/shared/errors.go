package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidConfiguration = NewDomainError("INVALID_CONFIGURATION", "Invalid type declaration")
	ErrUnexpectedArgument   = NewDomainError("UNEXPECTED_ARGUMENT", "Unexpected construction argument")
	ErrUnknownAttribute     = NewDomainError("UNKNOWN_ATTRIBUTE", "Attribute not declared on type")
)
