package yard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zulu":  1,
		"alpha": 2,
		"mike":  3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mike":3,"zulu":1}`, string(got))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	v := map[string]any{
		"targets": []any{
			map[string]any{"target": "s9a", "score": 105.0, "type": "siding"},
		},
		"count": int64(5),
	}
	a, err := MarshalCanonical(v)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		b, err := MarshalCanonical(v)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"msg": "a < b && c > d"})
	require.NoError(t, err)
	assert.Equal(t, `{"msg":"a < b && c > d"}`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// e + combining acute accent normalizes to the precomposed form.
	decomposed := "café"
	precomposed := "café"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_Floats(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"a": 102.5, "b": 100.0, "c": 0.25})
	require.NoError(t, err)
	assert.Equal(t, `{"a":102.5,"b":100,"c":0.25}`, string(got))

	_, err = MarshalCanonical(math.NaN())
	require.Error(t, err)
	_, err = MarshalCanonical(math.Inf(1))
	require.Error(t, err)
}

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{"plain", `"plain"`},
		{[]string{"b", "a"}, `["b","a"]`},
		{[]any{1, "x"}, `[1,"x"]`},
	}
	for _, tt := range tests {
		got, err := MarshalCanonical(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got))
	}
}

func TestMarshalCanonical_UnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
