package services

import (
	"regexp"
	"strings"

	"gscore/internal/forms"
	"gscore/internal/models"
	"gscore/internal/repository"
)

// AddonService resolves third-party product add-on fields against posted
// selections: which fields apply to a product, what they cost, and how
// the selection is displayed on the order line.
type AddonService interface {
	FieldsForProduct(product *models.Product) ([]models.Field, error)
	Resolve(fields []models.Field, posted map[string]forms.AddonValue) (map[string]string, float64)
	CostFromValue(value forms.AddonValue, field models.Field) float64
	FormatDisplay(value forms.AddonValue, field models.Field) []string
	ParseFormattedToValue(formatted string, field models.Field) string
	ValueFromParsed(parsed string, field models.Field) forms.AddonValue
}

type addonService struct {
	fieldGroupRepo repository.FieldGroupRepository
}

func NewAddonService(fieldGroupRepo repository.FieldGroupRepository) AddonService {
	return &addonService{fieldGroupRepo: fieldGroupRepo}
}

// FieldsForProduct finds the field group attached to the variation,
// falling back to the parent product, and returns its supported fields.
// A group whose rule groups do not reference this product yields nothing.
func (s *addonService) FieldsForProduct(product *models.Product) ([]models.Field, error) {
	if product == nil {
		return nil, nil
	}

	productID := product.ID
	variationID := uint(0)
	if product.IsVariation() {
		productID = product.ParentID
		variationID = product.ID
	}

	var group *models.FieldGroup
	var err error
	if variationID != 0 {
		group, err = s.fieldGroupRepo.GetByProductID(variationID)
		if err != nil {
			return nil, err
		}
	}
	if group == nil || len(group.Fields) == 0 {
		group, err = s.fieldGroupRepo.GetByProductID(productID)
		if err != nil {
			return nil, err
		}
	}
	if group == nil || len(group.Fields) == 0 {
		return nil, nil
	}

	if !ruleGroupsApply(group.RuleGroups, productID, variationID) {
		return nil, nil
	}

	fields := make([]models.Field, 0, len(group.Fields))
	for _, field := range group.Fields {
		switch field.Type {
		case models.FieldCheckbox, models.FieldCheckboxes, models.FieldSelect, models.FieldRadio:
			fields = append(fields, field)
		}
	}
	return fields, nil
}

func ruleGroupsApply(groups []models.RuleGroup, productID, variationID uint) bool {
	for _, group := range groups {
		for _, rule := range group.Rules {
			if rule.Condition != "product" {
				continue
			}
			for _, id := range rule.ValueIDs {
				if id == productID || (variationID != 0 && id == variationID) {
					return true
				}
			}
		}
	}
	return false
}

// Resolve computes the display strings (keyed by field label) and the
// per-unit cost delta for a posted selection. Absent or empty values
// contribute nothing.
func (s *addonService) Resolve(fields []models.Field, posted map[string]forms.AddonValue) (map[string]string, float64) {
	display := make(map[string]string)
	cost := 0.0

	for _, field := range fields {
		value, ok := posted[field.ID]
		if !ok || value.IsEmpty() {
			continue
		}

		formatted := s.FormatDisplay(value, field)
		if len(formatted) > 0 {
			display[field.Label] = strings.Join(formatted, ", ")
		}

		cost += s.CostFromValue(value, field)
	}
	return display, cost
}

func (s *addonService) CostFromValue(value forms.AddonValue, field models.Field) float64 {
	cost := 0.0

	switch field.Type {
	case models.FieldSelect, models.FieldRadio:
		slug := value.Scalar()
		for _, choice := range field.Choices {
			if choice.Slug == slug {
				cost += choice.PriceAmount
				break
			}
		}
	case models.FieldCheckbox:
		if value.Scalar() == "1" {
			cost += field.PriceAmount
		}
	case models.FieldCheckboxes:
		selected := value.Values
		for _, choice := range field.Choices {
			if containsString(selected, choice.Slug) {
				cost += choice.PriceAmount
			}
		}
	}
	return cost
}

// FormatDisplay renders the selection for the order line: the choice (or
// field) label, with the price delta appended when one applies.
func (s *addonService) FormatDisplay(value forms.AddonValue, field models.Field) []string {
	var formatted []string

	switch field.Type {
	case models.FieldSelect, models.FieldRadio:
		slug := value.Scalar()
		if slug == "" {
			return formatted
		}
		for _, choice := range field.Choices {
			if choice.Slug == slug {
				formatted = append(formatted, choiceText(choice.Label, choice.PriceAmount))
				break
			}
		}
	case models.FieldCheckbox:
		if value.Scalar() == "1" {
			formatted = append(formatted, choiceText(field.Label, field.PriceAmount))
		}
	case models.FieldCheckboxes:
		for _, choice := range field.Choices {
			if containsString(value.Values, choice.Slug) {
				formatted = append(formatted, choiceText(choice.Label, choice.PriceAmount))
			}
		}
	}
	return formatted
}

func choiceText(label string, amount float64) string {
	if amount != 0 {
		return label + " (+" + FormatPrice(amount) + ")"
	}
	return label
}

var displaySuffixRe = regexp.MustCompile(` \(([^)]+)\)$`)

// ParseFormattedToValue recovers the underlying slug(s) from a stored
// display string by matching labels. When a label is reused across
// choices the first match wins.
func (s *addonService) ParseFormattedToValue(formatted string, field models.Field) string {
	if formatted == "" {
		return ""
	}

	parts := strings.Split(formatted, ", ")
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		cleanParts = append(cleanParts, strings.TrimSpace(displaySuffixRe.ReplaceAllString(part, "")))
	}

	switch field.Type {
	case models.FieldSelect, models.FieldRadio:
		if len(cleanParts) != 1 {
			return ""
		}
		for _, choice := range field.Choices {
			if choice.Label == cleanParts[0] {
				return choice.Slug
			}
		}
		return ""
	case models.FieldCheckbox:
		if len(cleanParts) != 1 {
			return ""
		}
		if cleanParts[0] == field.Label {
			return "1"
		}
		return ""
	case models.FieldCheckboxes:
		var selected []string
		for _, clean := range cleanParts {
			for _, choice := range field.Choices {
				if choice.Label == clean {
					selected = append(selected, choice.Slug)
					break
				}
			}
		}
		return strings.Join(selected, ",")
	}
	return ""
}

// ValueFromParsed converts a ParseFormattedToValue result back into the
// posted-value shape, for recomputing the cost of a previously saved
// selection.
func (s *addonService) ValueFromParsed(parsed string, field models.Field) forms.AddonValue {
	if parsed == "" {
		return forms.AddonValue{}
	}
	if field.Type == models.FieldCheckboxes {
		return forms.ListValue(strings.Split(parsed, ",")...)
	}
	return forms.ScalarValue(parsed)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
