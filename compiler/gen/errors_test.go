package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/load"
)

func TestClassError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := NewClassError("com.acme.Person", "unable to find @NodeKey for class", nil)
		assert.Equal(t, "graphgen: com.acme.Person: unable to find @NodeKey for class", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewClassError("com.acme.Person", "", cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrInvalidClass)
	})

	t.Run("IsClassError helper", func(t *testing.T) {
		assert.True(t, IsClassError(fmt.Errorf("wrapped: %w", NewClassError("a.B", "x", nil))))
		assert.False(t, IsClassError(errors.New("other")))
	})
}

func TestAttributeError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := NewAttributeError("com.acme.Person", "friends", "non-scalar property 'friends' requires @NodeAttribute with relationship", nil)
		assert.Equal(t, "graphgen: com.acme.Person.friends non-scalar property 'friends' requires @NodeAttribute with relationship", err.Error())
	})

	t.Run("Wraps class not found", func(t *testing.T) {
		cause := fmt.Errorf("%w: com.acme.Gone", load.ErrClassNotFound)
		err := NewAttributeError("com.acme.Person", "gone", "class not found", cause)
		assert.ErrorIs(t, err, load.ErrClassNotFound)
		assert.ErrorIs(t, err, ErrInvalidAttribute)
		assert.Contains(t, err.Error(), "com.acme.Gone")
	})
}

func TestResolveError(t *testing.T) {
	t.Run("Unresolved edge target", func(t *testing.T) {
		err := NewResolveError("Person", "pets", "com.acme.Pet", "")
		assert.Equal(t, "graphgen: attribute 'pets' of 'Person' could not resolve type com.acme.Pet", err.Error())
	})

	t.Run("Relation message", func(t *testing.T) {
		err := NewResolveError("Likes", "", "", "relation entity does not have @EndNode")
		assert.Equal(t, "graphgen: Likes: relation entity does not have @EndNode", err.Error())
		assert.ErrorIs(t, err, ErrUnresolved)
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("Person", "pets", "com.acme.Pet")
	assert.Equal(t, "graphgen: unrecognized type 'com.acme.Pet' was encountered in type 'Person' at 'pets'", err.Error())
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "must not be negative")
		assert.Contains(t, err.Error(), "graphgen: config error")
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "-1")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
		assert.ErrorIs(t, err, ErrMissingConfig)
	})
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("write failed")
	err := NewGenerationError("write", "schema.graphql", "cannot write file", cause)

	assert.Contains(t, err.Error(), "graphgen: generation error")
	assert.Contains(t, err.Error(), "phase write")
	assert.Contains(t, err.Error(), "file: schema.graphql")
	assert.Contains(t, err.Error(), "write failed")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		isClass bool
		isAttr  bool
		isRes   bool
		isVal   bool
		isCfg   bool
		isGen   bool
	}{
		{name: "ClassError", err: NewClassError("a.B", "", nil), isClass: true},
		{name: "AttributeError", err: NewAttributeError("a.B", "c", "", nil), isAttr: true},
		{name: "ResolveError", err: NewResolveError("B", "c", "a.D", ""), isRes: true},
		{name: "ValidationError", err: NewValidationError("B", "c", "a.D"), isVal: true},
		{name: "ConfigError", err: NewConfigError("Target", nil, ""), isCfg: true},
		{name: "GenerationError", err: NewGenerationError("render", "", "", nil), isGen: true},
		{name: "Other error", err: errors.New("other")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isClass, IsClassError(tt.err))
			assert.Equal(t, tt.isAttr, IsAttributeError(tt.err))
			assert.Equal(t, tt.isRes, IsResolveError(tt.err))
			assert.Equal(t, tt.isVal, IsValidationError(tt.err))
			assert.Equal(t, tt.isCfg, IsConfigError(tt.err))
			assert.Equal(t, tt.isGen, IsGenerationError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("scan: %w", NewAttributeError("com.acme.Person", "age", "bad", nil))
	var attrErr *AttributeError
	require.True(t, errors.As(err, &attrErr))
	assert.Equal(t, "com.acme.Person", attrErr.Class)
	assert.Equal(t, "age", attrErr.Attribute)
}
