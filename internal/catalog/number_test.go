package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MiniCatalog/internal/catalog"
)

func TestNumber_JSONIsBareAndLeavesDecimalAlone(t *testing.T) {
	b, err := json.Marshal(catalog.MustNumber("1.50"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(b))

	assert.False(t, decimal.MarshalJSONWithoutQuotes)
	b, err = json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(b), "plain decimals keep their own encoding")
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: `2.5`, want: "2.5"},
		{in: `"2.5"`, want: "2.5"},
		{in: `10`, want: "10"},
		{in: `-3`, want: "-3"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			var n catalog.Number
			require.NoError(t, json.Unmarshal([]byte(tc.in), &n))
			assert.Equal(t, tc.want, n.String())
		})
	}

	var n catalog.Number
	require.Error(t, json.Unmarshal([]byte(`"cheap"`), &n))
}

func TestProduct_YAMLNumbersMatchJSON(t *testing.T) {
	p := catalog.Product{
		ID: 1, Title: "Pen", Description: "Blue pen", Price: catalog.MustNumber("1.5"),
		Thumbnail: "pen.png", Code: "P001", Stock: catalog.MustNumber("2.5"),
	}

	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "price: 1.5\n")
	assert.Contains(t, string(out), "stock: 2.5\n")
	assert.NotContains(t, string(out), `"1.5"`)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, 1.5, decoded["price"])
	assert.Equal(t, 2.5, decoded["stock"])

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":1,"title":"Pen","description":"Blue pen","price":1.5,"thumbnail":"pen.png","code":"P001","stock":2.5}`,
		string(raw))
}
