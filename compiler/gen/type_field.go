package gen

// Field is a simple attribute: a scalar, an enum, or a collection of either.
type Field struct {
	// Name is the schema name of the attribute.
	Name string
	// Scalar is the scalar or enum type of the attribute (or of its elements).
	Scalar *Scalar
	// Required renders as a non-null type.
	Required bool
	// Collection renders as a list of non-null elements.
	Collection bool
	// Class is the element class of the member, used for typed
	// repository parameters.
	Class string
}

// IsEnum reports whether the attribute is an enum.
func (f *Field) IsEnum() bool {
	return f.Scalar != nil && f.Scalar.Enum
}

// ScalarName returns the schema name of the attribute type.
func (f *Field) ScalarName() string {
	if f.Scalar == nil {
		return ""
	}
	return f.Scalar.Name
}
