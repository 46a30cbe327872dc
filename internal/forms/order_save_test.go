package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrderSave(t *testing.T) {
	t.Parallel()

	form := ParseOrderSave(url.Values{
		"line_total[3]":                 {"$1,250.00"},
		"line_subtotal[3]":              {"1250"},
		"shipping_cost[7]":              {"60.00"},
		"shipping_method[7]":            {" flexible_shipping_1 "},
		"manual_line_item_override[3]":  {"1"},
		"manual_shipping_override[7]":   {"on"},
		"order_item_addons[3][finish]":  {"gloss"},
		"order_item_addons[3][eng][]":   {"front-panel", "door-interior"},
		"_sales_rep":                    {"jsmith"},
		"_gscore_tax_exempt":            {"yes"},
		"_gscore_tax_exempt_number":     {" NJ-EX-100 "},
	})

	require.Equal(t, 1250.0, form.LineTotals[3])
	require.Equal(t, 1250.0, form.LineSubtotals[3])
	require.Equal(t, 60.0, form.ShippingCosts[7])
	require.Equal(t, []float64{60}, form.PositionalShippingCosts)
	require.Equal(t, "flexible_shipping_1", form.ShippingMethods[7])
	require.True(t, form.ManualLineOverride[3])
	require.True(t, form.ManualShippingOverride[7])

	require.Equal(t, "gloss", form.Addons[3]["finish"].Scalar())
	require.True(t, form.Addons[3]["eng"].Many)
	require.ElementsMatch(t, []string{"front-panel", "door-interior"}, form.Addons[3]["eng"].Values)

	require.NotNil(t, form.SalesRep)
	require.Equal(t, "jsmith", *form.SalesRep)
	require.NotNil(t, form.TaxExempt)
	require.True(t, *form.TaxExempt)
	require.NotNil(t, form.TaxExemptNumber)
	require.Equal(t, "NJ-EX-100", *form.TaxExemptNumber)
}

func TestParseOrderSaveDropsMalformedKeys(t *testing.T) {
	t.Parallel()

	form := ParseOrderSave(url.Values{
		"line_total[abc]":             {"10"},
		"line_total[2]":               {"not a number"},
		"line_total":                  {"10"},
		"order_item_addons[x][field]": {"v"},
		"unrelated_key[5]":            {"v"},
	})

	require.Empty(t, form.LineTotals)
	require.Empty(t, form.Addons)
	require.Nil(t, form.SalesRep)
	require.Nil(t, form.TaxExempt)
}

func TestHasPostedLine(t *testing.T) {
	t.Parallel()

	form := ParseOrderSave(url.Values{
		"line_total[1]":    {"10"},
		"line_subtotal[2]": {"20"},
	})
	require.True(t, form.HasPostedLine(1))
	require.True(t, form.HasPostedLine(2))
	require.False(t, form.HasPostedLine(3))
}

func TestAddonValueShapes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "x", ScalarValue("x").Scalar())
	require.Equal(t, "", ListValue("a", "b").Scalar())
	require.True(t, AddonValue{}.IsEmpty())
	require.True(t, ListValue("", " ").IsEmpty())
	require.False(t, ListValue("", "a").IsEmpty())
}

func TestParseAddonPairs(t *testing.T) {
	t.Parallel()

	pairs := []InputPair{
		{Name: "order_item_addons[9][finish]", Value: "gloss"},
		{Name: "order_item_addons[9][eng][]", Value: "front-panel"},
		{Name: "order_item_addons[9][eng][]", Value: "door-interior"},
		{Name: "order_item_addons[4][finish]", Value: "matte"},
		{Name: "security", Value: "tok"},
	}

	addons := ParseAddonPairs(pairs, 9)
	require.Len(t, addons, 2)
	require.Equal(t, "gloss", addons["finish"].Scalar())
	require.Equal(t, []string{"front-panel", "door-interior"}, addons["eng"].Values)

	require.Empty(t, ParseAddonPairs(pairs, 1))
}
