package forms

// InputPair is one serialized form input from the admin order screen's
// add-on editor.
type InputPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParseAddonPairs extracts the add-on selection for one item from
// serialized input pairs named order_item_addons[item][field] or
// order_item_addons[item][field][]. Pairs for other items are ignored.
func ParseAddonPairs(pairs []InputPair, itemID uint) map[string]AddonValue {
	addons := make(map[string]AddonValue)
	for _, pair := range pairs {
		m := addonKeyRe.FindStringSubmatch(pair.Name)
		if m == nil {
			continue
		}
		id, err := parseID(m[1])
		if err != nil || id != itemID {
			continue
		}
		fieldID := m[2]
		if m[3] != "" {
			existing := addons[fieldID]
			addons[fieldID] = ListValue(append(existing.Values, pair.Value)...)
		} else {
			addons[fieldID] = ScalarValue(pair.Value)
		}
	}
	return addons
}
