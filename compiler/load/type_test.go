package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		kind TypeKind
		name string
		want string
	}{
		{in: "int", kind: KindPrimitive, name: "int", want: "int"},
		{in: "java.lang.String", kind: KindClass, name: "java.lang.String", want: "java.lang.String"},
		{in: "com.acme.Person[]", kind: KindArray, name: "com.acme.Person", want: "com.acme.Person[]"},
		{in: "long[][]", kind: KindArray, name: "long", want: "long[][]"},
		{in: "java.util.List<com.acme.Address>", kind: KindParameterized, name: "java.util.List", want: "java.util.List<com.acme.Address>"},
		{in: "java.util.Map<java.lang.String,com.acme.Tag>", kind: KindParameterized, name: "java.util.Map", want: "java.util.Map<java.lang.String, com.acme.Tag>"},
		{in: "java.util.List<? extends com.acme.Tag>", kind: KindParameterized, name: "java.util.List", want: "java.util.List<? extends com.acme.Tag>"},
		{in: "T", kind: KindVariable, name: "T", want: "T"},
		{in: "com.acme.Outer$Inner", kind: KindClass, name: "com.acme.Outer$Inner", want: "com.acme.Outer$Inner"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, typ.Kind)
			assert.Equal(t, tt.name, typ.Name)
			assert.Equal(t, tt.want, typ.String())
		})
	}

	t.Run("nested arguments", func(t *testing.T) {
		typ := MustParseType("java.util.List<java.util.Set<com.acme.A>>")
		require.Len(t, typ.Arguments, 1)
		assert.Equal(t, KindParameterized, typ.Arguments[0].Kind)
		assert.Equal(t, "com.acme.A", typ.Arguments[0].Arguments[0].Name)
	})

	t.Run("errors", func(t *testing.T) {
		for _, in := range []string{"", "java.util.List<", "int<java.lang.String>", "java.lang.String)", "java.util.List<a.B c.D>"} {
			_, err := ParseType(in)
			assert.Error(t, err, in)
		}
	})
}

func TestTypeKindString(t *testing.T) {
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "invalid", TypeKind(0).String())
	assert.Equal(t, "invalid", TypeKind(42).String())
}
