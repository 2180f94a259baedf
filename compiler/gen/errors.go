package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidClass indicates a class that cannot become a schema type.
	ErrInvalidClass = errors.New("graphgen: invalid class")
	// ErrInvalidAttribute indicates a member that cannot become a schema attribute.
	ErrInvalidAttribute = errors.New("graphgen: invalid attribute")
	// ErrUnresolved indicates a type that was excised during resolution.
	ErrUnresolved = errors.New("graphgen: unresolved type")
	// ErrValidationFailed indicates a mention of an unknown type.
	ErrValidationFailed = errors.New("graphgen: validation failed")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("graphgen: missing configuration")
	// ErrGenerationFailed indicates a rendering or write failure.
	ErrGenerationFailed = errors.New("graphgen: generation failed")
)

// ClassError is raised when a whole class cannot be modeled.
type ClassError struct {
	Class   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ClassError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: ")
	b.WriteString(e.Class)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ClassError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ClassError.
func (e *ClassError) Is(target error) bool {
	return target == ErrInvalidClass
}

// NewClassError creates a new ClassError.
func NewClassError(class, message string, cause error) *ClassError {
	return &ClassError{
		Class:   class,
		Message: message,
		Cause:   cause,
	}
}

// AttributeError is raised for a single member of a class. The type
// owning the member is not registered.
type AttributeError struct {
	Class     string
	Attribute string
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: ")
	b.WriteString(e.Class)
	if e.Attribute != "" {
		b.WriteString(".")
		b.WriteString(e.Attribute)
	}
	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *AttributeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for AttributeError.
func (e *AttributeError) Is(target error) bool {
	return target == ErrInvalidAttribute
}

// NewAttributeError creates a new AttributeError.
func NewAttributeError(class, attribute, message string, cause error) *AttributeError {
	return &AttributeError{
		Class:     class,
		Attribute: attribute,
		Message:   message,
		Cause:     cause,
	}
}

// ResolveError is recorded for every type removed by Graph.Resolve.
type ResolveError struct {
	Type      string
	Attribute string
	Target    string
	Message   string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: ")
	switch {
	case e.Message != "":
		b.WriteString(e.Type)
		b.WriteString(": ")
		b.WriteString(e.Message)
	default:
		fmt.Fprintf(&b, "attribute '%s' of '%s' could not resolve type %s", e.Attribute, e.Type, e.Target)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ResolveError.
func (e *ResolveError) Is(target error) bool {
	return target == ErrUnresolved
}

// NewResolveError creates a new ResolveError.
func NewResolveError(typeName, attribute, target, message string) *ResolveError {
	return &ResolveError{
		Type:      typeName,
		Attribute: attribute,
		Target:    target,
		Message:   message,
	}
}

// ValidationError reports a mention of a class that is neither a scalar
// nor a registered type.
type ValidationError struct {
	Type      string
	Attribute string
	Mentioned string
	// Message replaces the default description when set.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "graphgen: " + e.Message
	}
	return fmt.Sprintf("graphgen: unrecognized type '%s' was encountered in type '%s' at '%s'", e.Mentioned, e.Type, e.Attribute)
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(typeName, attribute, mentioned string) *ValidationError {
	return &ValidationError{
		Type:      typeName,
		Attribute: attribute,
		Mentioned: mentioned,
	}
}

// NewEnumCollisionError creates a ValidationError for an enum of class
// whose schema name is already used by the enum of other.
func NewEnumCollisionError(class, other, name string) *ValidationError {
	return &ValidationError{
		Type:      class,
		Mentioned: other,
		Message:   fmt.Sprintf("enum '%s' of '%s' has the same name as the enum of '%s'", name, class, other),
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("graphgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("graphgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a rendering, verification or write error.
type GenerationError struct {
	Phase   string // "render", "verify", "write", "prune", ...
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("graphgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsClassError reports whether the error is a ClassError.
func IsClassError(err error) bool {
	var classErr *ClassError
	return errors.As(err, &classErr)
}

// IsAttributeError reports whether the error is an AttributeError.
func IsAttributeError(err error) bool {
	var attrErr *AttributeError
	return errors.As(err, &attrErr)
}

// IsResolveError reports whether the error is a ResolveError.
func IsResolveError(err error) bool {
	var resErr *ResolveError
	return errors.As(err, &resErr)
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
