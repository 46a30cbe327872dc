package services

import (
	"gscore/internal/forms"
	"gscore/internal/models"
)

// OverrideService tracks whether an admin has manually typed a line price
// that intentionally supersedes computed pricing. A line is either
// Computed or ManualOverride; while overridden, the stored override
// total/subtotal win over any recomputation.
type OverrideService interface {
	EvaluateLine(item *models.OrderItem, form *forms.OrderSaveForm, expected ExpectedLineTotals) LineDecision
}

// ExpectedLineTotals is what the add-on resolver would price the line at,
// from the posted selections and from the previously saved ones.
type ExpectedLineTotals struct {
	FromPosted float64
	FromSaved  float64
}

// LineDecision is the resolved state for one line after a save.
type LineDecision struct {
	Override bool
	Total    float64
	Subtotal float64
}

type overrideService struct{}

func NewOverrideService() OverrideService {
	return &overrideService{}
}

func (s *overrideService) EvaluateLine(item *models.OrderItem, form *forms.OrderSaveForm, expected ExpectedLineTotals) LineDecision {
	explicitFlag := false
	if form != nil {
		explicitFlag = form.ManualLineOverride[item.ID]
	}

	postedTotal, hasTotal := postedAmount(form, item.ID, false)
	postedSubtotal, hasSubtotal := postedAmount(form, item.ID, true)

	// A save that does not touch this line leaves an existing override
	// untouched.
	if !hasTotal && !hasSubtotal && !explicitFlag {
		if item.ManualOverrideEnabled {
			return LineDecision{Override: true, Total: item.ManualTotalOverride, Subtotal: item.ManualSubtotalOverride}
		}
		return LineDecision{}
	}

	if !hasTotal {
		postedTotal = item.Total
	}
	if !hasSubtotal {
		postedSubtotal = item.Subtotal
	}

	if explicitFlag {
		return LineDecision{Override: true, Total: postedTotal, Subtotal: postedSubtotal}
	}

	matchesExpected := (!amountsDiffer(postedTotal, expected.FromPosted) || !amountsDiffer(postedTotal, expected.FromSaved)) &&
		(!amountsDiffer(postedSubtotal, expected.FromPosted) || !amountsDiffer(postedSubtotal, expected.FromSaved))
	if matchesExpected {
		// Posted values are what the system would compute; the line is
		// (back) under computed pricing.
		return LineDecision{}
	}

	differsFromStored := amountsDiffer(postedTotal, item.Total) || amountsDiffer(postedSubtotal, item.Subtotal)
	if differsFromStored {
		return LineDecision{Override: true, Total: postedTotal, Subtotal: postedSubtotal}
	}

	// Posted equals what is already stored but not what we would compute:
	// an overridden line being re-submitted unchanged stays overridden, a
	// computed line falls through to recomputation.
	if item.ManualOverrideEnabled {
		return LineDecision{Override: true, Total: item.ManualTotalOverride, Subtotal: item.ManualSubtotalOverride}
	}
	return LineDecision{}
}

func postedAmount(form *forms.OrderSaveForm, itemID uint, subtotal bool) (float64, bool) {
	if form == nil {
		return 0, false
	}
	if subtotal {
		v, ok := form.LineSubtotals[itemID]
		return v, ok
	}
	v, ok := form.LineTotals[itemID]
	return v, ok
}
