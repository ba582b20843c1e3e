package jsonclean

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsOrderAndNumbers(t *testing.T) {
	v, err := Parse([]byte(`{"z": 1.50, "a": [true, null, "s"], "m": {"k": -3}}`))
	require.NoError(t, err)

	assert.Equal(t, KindObject, v.Kind)
	assert.Equal(t, []string{"z", "a", "m"}, v.Keys())
	assert.Equal(t, json.Number("1.50"), v.Get("z").Scalar)

	arr := v.Get("a")
	require.Equal(t, KindArray, arr.Kind)
	require.Len(t, arr.Items, 3)
	assert.Equal(t, true, arr.Items[0].Scalar)
	assert.Nil(t, arr.Items[1].Scalar)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1.50,"a":[true,null,"s"],"m":{"k":-3}}`, string(out))
}

func TestFromAny(t *testing.T) {
	v := FromAny(map[string]any{
		"b": []any{float64(1), "two"},
		"a": map[string]any{"c": nil},
		"s": []string{"x"},
	})

	assert.Equal(t, []string{"a", "b", "s"}, v.Keys())
	assert.Equal(t, json.Number("1"), v.Get("b").Items[0].Scalar)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"c": nil},
		"b": []any{float64(1), "two"},
		"s": []any{"x"},
	}, v.Any())
}

func TestFromAny_Struct(t *testing.T) {
	type payload struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}
	v := FromAny(payload{ID: "A", Count: 2})
	assert.Equal(t, []string{"id", "count"}, v.Keys())
}

func TestFalsy(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want bool
	}{
		{"absent", nil, true},
		{"null", Null(), true},
		{"false", Bool(false), true},
		{"true", Bool(true), false},
		{"empty string", String(""), true},
		{"string", String("x"), false},
		{"zero", Number("0"), true},
		{"zero float", Number("0.0"), true},
		{"number", Number("7"), false},
		{"empty object", NewObject(), true},
		{"object", NewObject(Member{Key: "id", Value: String("x")}), false},
		{"empty array", NewArray(), true},
		{"array", NewArray(Null()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Falsy())
		})
	}
}

func TestMarshalJSON_NilValue(t *testing.T) {
	var v *Value
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
