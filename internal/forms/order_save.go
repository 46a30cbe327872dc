package forms

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// OrderSaveForm is the validated shape of an admin order-save POST. Every
// field defaults to absent; malformed keys and non-numeric values are
// dropped at this boundary and never reach the pricing logic.
type OrderSaveForm struct {
	LineTotals    map[uint]float64
	LineSubtotals map[uint]float64

	ShippingCosts   map[uint]float64
	ShippingMethods map[uint]string
	// PositionalShippingCosts keeps posted shipping costs in submission
	// order for the single-item positional fallback.
	PositionalShippingCosts []float64

	ManualLineOverride     map[uint]bool
	ManualShippingOverride map[uint]bool

	// Addons maps item id -> field id -> posted value.
	Addons map[uint]map[string]AddonValue

	SalesRep        *string
	TaxExempt       *bool
	TaxExemptNumber *string
}

// AddonValue is a tagged union over the two posted shapes: a scalar value
// (checkbox, select, radio) or a multi-select list (checkboxes).
type AddonValue struct {
	Many   bool
	Values []string
}

func ScalarValue(v string) AddonValue { return AddonValue{Values: []string{v}} }

func ListValue(vs ...string) AddonValue { return AddonValue{Many: true, Values: vs} }

// Scalar returns the single value, or "" when empty or multi.
func (v AddonValue) Scalar() string {
	if v.Many || len(v.Values) == 0 {
		return ""
	}
	return v.Values[0]
}

func (v AddonValue) IsEmpty() bool {
	for _, s := range v.Values {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

var (
	indexedKeyRe = regexp.MustCompile(`^([a-z_]+)\[(\d+)\]$`)
	addonKeyRe   = regexp.MustCompile(`^order_item_addons\[(\d+)\]\[([^\]\[]+)\](\[\])?$`)
)

// ParseOrderSave builds an OrderSaveForm from raw form values.
func ParseOrderSave(values url.Values) *OrderSaveForm {
	f := &OrderSaveForm{
		LineTotals:             make(map[uint]float64),
		LineSubtotals:          make(map[uint]float64),
		ShippingCosts:          make(map[uint]float64),
		ShippingMethods:        make(map[uint]string),
		ManualLineOverride:     make(map[uint]bool),
		ManualShippingOverride: make(map[uint]bool),
		Addons:                 make(map[uint]map[string]AddonValue),
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		if m := addonKeyRe.FindStringSubmatch(key); m != nil {
			itemID, err := parseID(m[1])
			if err != nil {
				continue
			}
			fieldID := m[2]
			if f.Addons[itemID] == nil {
				f.Addons[itemID] = make(map[string]AddonValue)
			}
			if m[3] != "" {
				existing := f.Addons[itemID][fieldID]
				f.Addons[itemID][fieldID] = ListValue(append(existing.Values, vals...)...)
			} else {
				f.Addons[itemID][fieldID] = ScalarValue(vals[0])
			}
			continue
		}

		m := indexedKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		itemID, err := parseID(m[2])
		if err != nil {
			continue
		}

		switch m[1] {
		case "line_total":
			if amount, ok := parseAmount(vals[0]); ok {
				f.LineTotals[itemID] = amount
			}
		case "line_subtotal":
			if amount, ok := parseAmount(vals[0]); ok {
				f.LineSubtotals[itemID] = amount
			}
		case "shipping_cost":
			if amount, ok := parseAmount(vals[0]); ok {
				f.ShippingCosts[itemID] = amount
				f.PositionalShippingCosts = append(f.PositionalShippingCosts, amount)
			}
		case "shipping_method":
			f.ShippingMethods[itemID] = strings.TrimSpace(vals[0])
		case "manual_line_item_override":
			f.ManualLineOverride[itemID] = parseFlag(vals[0])
		case "manual_shipping_override":
			f.ManualShippingOverride[itemID] = parseFlag(vals[0])
		}
	}

	if v, ok := single(values, "_sales_rep"); ok {
		f.SalesRep = &v
	}
	if v, ok := single(values, "_gscore_tax_exempt"); ok {
		exempt := parseFlag(v)
		f.TaxExempt = &exempt
	}
	if v, ok := single(values, "_gscore_tax_exempt_number"); ok {
		f.TaxExemptNumber = &v
	}

	return f
}

// HasPostedLine reports whether the save touched the given line item's
// totals at all.
func (f *OrderSaveForm) HasPostedLine(itemID uint) bool {
	_, hasTotal := f.LineTotals[itemID]
	_, hasSubtotal := f.LineSubtotals[itemID]
	return hasTotal || hasSubtotal
}

func single(values url.Values, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
