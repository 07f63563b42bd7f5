package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/catalog-normalizer/internal/extractor"
	"github.com/ginjaninja78/catalog-normalizer/internal/types"
)

func TestDecode(t *testing.T) {
	records, err := Decode([]byte(`[
		{"product_name": "Helm", "price": "Rp150.000", "discount_price": "null", "rating": 4.50},
		{"product_name": "Jaket", "price": null}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Helm", records[0]["product_name"])
	assert.Equal(t, "null", records[0]["discount_price"])
	assert.Equal(t, json.Number("4.50"), records[0]["rating"])

	v, ok := records[1]["price"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestDecode_EmptyArray(t *testing.T) {
	records, err := Decode([]byte(" [ ] "))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "syntax error", input: `[{"a": }]`},
		{name: "object not array", input: `{"a": 1}`},
		{name: "array of scalars", input: `[1, 2]`},
		{name: "null top level", input: `null`},
		{name: "null element", input: `[{"a": "b"}, null]`},
		{name: "trailing data", input: `[] []`},
		{name: "empty", input: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, extractor.ErrInvalidData)
		})
	}
}

func TestEncode_StableIndentation(t *testing.T) {
	records := types.Collection{
		{"product_name": "Helm & Visor", "price": int64(150000), "discount_price": "null", "id": int64(1)},
	}

	out, err := Encode(records, "", "  ")
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"discount_price\": \"null\",\n" +
		"    \"id\": 1,\n" +
		"    \"price\": 150000,\n" +
		"    \"product_name\": \"Helm & Visor\"\n" +
		"  }\n" +
		"]"
	assert.Equal(t, want, string(out))

	again, err := Encode(records, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestEncode_Empty(t *testing.T) {
	out, err := Encode(nil, "", "\t")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestRoundTrip_PreservesNumbers(t *testing.T) {
	in := `[{"rating":4.50,"sold":1e3}]`
	records, err := Decode([]byte(in))
	require.NoError(t, err)

	out, err := Encode(records, "", "")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"rating":4.50`)
	assert.Contains(t, string(out), `"sold":1e3`)
}
