package services

import (
	"log"

	"gscore/internal/forms"
	"gscore/internal/hooks"
	"gscore/internal/models"
	"gscore/internal/repository"
)

// Hook priorities for the order save lifecycle. Coupon backup runs before
// any item mutation; the forced tax/total pass runs strictly after every
// pricing mutation.
const (
	prioCouponBackup   = 5
	prioShippingRecalc = 10
	prioItemsSavedPass = 20
	prioMetaSave       = 100
	prioForceRecalc    = 101
)

// RecalcService sequences the pricing sub-systems across the order save
// lifecycle so taxes and totals come out right exactly once per save.
type RecalcService interface {
	Register(d *hooks.Dispatcher)
	// SaveItemAddons is the single-item AJAX pass. It returns the updated
	// line item, or nil when order/item/product cannot be resolved.
	SaveItemAddons(orderID, itemID uint, posted map[string]forms.AddonValue) (*models.OrderItem, error)
}

type recalcService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	shippingRepo  repository.ShippingItemRepository
	productRepo   repository.ProductRepository
	recalcLogRepo repository.RecalcLogRepository

	orders   OrderService
	addons   AddonService
	override OverrideService
	shipping ShippingService
	coupons  CouponService
	tax      TaxService
}

func NewRecalcService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	shippingRepo repository.ShippingItemRepository,
	productRepo repository.ProductRepository,
	recalcLogRepo repository.RecalcLogRepository,
	orders OrderService,
	addons AddonService,
	override OverrideService,
	shipping ShippingService,
	coupons CouponService,
	tax TaxService,
) RecalcService {
	return &recalcService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		shippingRepo:  shippingRepo,
		productRepo:   productRepo,
		recalcLogRepo: recalcLogRepo,
		orders:        orders,
		addons:        addons,
		override:      override,
		shipping:      shipping,
		coupons:       coupons,
		tax:           tax,
	}
}

// Register wires the handlers onto the dispatcher. Safe to call more than
// once; registration happens a single time.
func (s *recalcService) Register(d *hooks.Dispatcher) {
	if !d.Once("order-recalc") {
		return
	}

	d.AddAction(hooks.OrderProcessMeta, prioCouponBackup, s.preserveCoupons)
	d.AddAction(hooks.OrderProcessMeta, prioMetaSave, s.saveSalesRep)
	d.AddAction(hooks.OrderProcessMeta, prioMetaSave, s.saveTaxExempt)
	d.AddAction(hooks.OrderProcessMeta, prioMetaSave, s.saveOrderItemAddons)
	d.AddAction(hooks.OrderProcessMeta, prioForceRecalc, s.forceRecalculate)

	d.AddAction(hooks.OrderItemsSaved, prioCouponBackup, s.preserveCoupons)
	d.AddAction(hooks.OrderItemsSaved, prioShippingRecalc, s.recalcShipping)
	d.AddAction(hooks.OrderItemsSaved, prioItemsSavedPass, s.saveOrderItemAddons)

	d.AddAction(hooks.OrderItemCreated, prioShippingRecalc, s.handleNewOrderItem)
	d.AddAction(hooks.OrderCreated, prioShippingRecalc, s.markManualAdminOrder)
}

func (s *recalcService) preserveCoupons(e *hooks.Event) {
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	if err := s.coupons.Preserve(order, e.CouponAction); err != nil {
		log.Printf("coupon backup failed for order %d: %v", e.OrderID, err)
	}
}

func (s *recalcService) saveSalesRep(e *hooks.Event) {
	if e.Form == nil || e.Form.SalesRep == nil {
		return
	}
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	current := order.SalesRep
	if current == "" {
		current = "N/A"
	}
	if *e.Form.SalesRep != current {
		order.SalesRep = *e.Form.SalesRep
		s.orderRepo.Update(order)
	}
}

func (s *recalcService) saveTaxExempt(e *hooks.Event) {
	if e.Form == nil || (e.Form.TaxExempt == nil && e.Form.TaxExemptNumber == nil) {
		return
	}
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	if e.Form.TaxExempt != nil {
		order.TaxExempt = *e.Form.TaxExempt
	}
	if e.Form.TaxExemptNumber != nil {
		order.TaxExemptNumber = *e.Form.TaxExemptNumber
	}
	s.orderRepo.Update(order)
}

// saveOrderItemAddons is the central per-line pass: it re-resolves add-on
// pricing for every line, runs manual-override detection against the
// posted totals, writes the outcome, then restores coupons. On the
// item-save flow it finishes with an immediate tax/total pass; the full
// form save defers that to forceRecalculate.
func (s *recalcService) saveOrderItemAddons(e *hooks.Event) {
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}

	exempt, _, _ := s.tax.ExemptStatus(order)
	dest := order.Destination()

	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err != nil {
		return
	}

	for _, item := range items {
		// A line the save never touched keeps its meta and pricing. An
		// absent add-on selection on a touched line means "cleared".
		touched := e.Form != nil &&
			(e.Form.HasPostedLine(item.ID) || len(e.Form.Addons[item.ID]) > 0 || e.Form.ManualLineOverride[item.ID])
		if !touched {
			continue
		}

		product := s.productForItem(item)
		if product == nil {
			continue
		}

		fields, err := s.addons.FieldsForProduct(product)
		if err != nil {
			continue
		}

		// Previous add-on cost from the stored display strings, then
		// clear the old meta for the applicable fields.
		previousCost := 0.0
		for _, field := range fields {
			saved, ok := item.AddonMeta[field.Label]
			if !ok {
				continue
			}
			parsed := s.addons.ParseFormattedToValue(saved, field)
			previousCost += s.addons.CostFromValue(s.addons.ValueFromParsed(parsed, field), field)
			delete(item.AddonMeta, field.Label)
		}

		var posted map[string]forms.AddonValue
		if e.Form != nil {
			posted = e.Form.Addons[item.ID]
		}

		display, addonCost := s.addons.Resolve(fields, posted)

		basePrice := product.Price
		quantity := float64(item.Quantity)
		expected := ExpectedLineTotals{
			FromPosted: Round2((basePrice + addonCost) * quantity),
			FromSaved:  Round2((basePrice + previousCost) * quantity),
		}

		decision := s.override.EvaluateLine(item, e.Form, expected)

		for label, text := range display {
			if item.AddonMeta == nil {
				item.AddonMeta = make(map[string]string)
			}
			item.AddonMeta[label] = text
		}

		if decision.Override {
			item.ManualOverrideEnabled = true
			item.ManualTotalOverride = decision.Total
			item.ManualSubtotalOverride = decision.Subtotal
			item.Total = decision.Total
			item.Subtotal = decision.Subtotal
		} else {
			item.ManualOverrideEnabled = false
			item.ManualTotalOverride = 0
			item.ManualSubtotalOverride = 0
			item.Subtotal = expected.FromPosted
			item.Total = expected.FromPosted
		}

		item.TotalTax = s.tax.CalcTax(item.Total, dest, exempt)
		item.SubtotalTax = s.tax.CalcTax(item.Subtotal, dest, exempt)

		if err := s.orderItemRepo.Update(item); err != nil {
			log.Printf("failed to save order item %d: %v", item.ID, err)
		}
	}

	if err := s.coupons.Restore(order, e.CouponAction); err != nil {
		log.Printf("coupon restore failed for order %d: %v", order.ID, err)
	}

	// Item-save flow recalculates immediately; the full save defers to
	// the forced pass at priority 101.
	if e.Hook == hooks.OrderItemsSaved && !e.FullSave {
		s.orders.CalculateTaxes(order)
		s.orders.CalculateTotals(order)
	}
}

// forceRecalculate is the single full tax/total pass for the form save,
// run only when add-ons or a coupon backup were in play.
func (s *recalcService) forceRecalculate(e *hooks.Event) {
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}

	hasAddons := false
	items, err := s.orderItemRepo.GetByOrderID(order.ID)
	if err == nil {
		for _, item := range items {
			product := s.productForItem(item)
			if product == nil {
				continue
			}
			if fields, err := s.addons.FieldsForProduct(product); err == nil && len(fields) > 0 {
				hasAddons = true
				break
			}
		}
	}

	backupExists := len(order.CouponBackup) > 0
	if !hasAddons && !backupExists {
		return
	}

	s.orders.CalculateTaxes(order)
	s.orders.CalculateTotals(order)

	if backupExists {
		order.CouponBackup = nil
		s.orderRepo.Update(order)
	}

	if s.recalcLogRepo != nil {
		s.recalcLogRepo.Create(&models.RecalcLog{
			OrderID:  order.ID,
			Trigger:  e.Hook,
			Subtotal: order.ItemsSubtotal,
			Total:    order.Total,
		})
	}
}

func (s *recalcService) recalcShipping(e *hooks.Event) {
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	if err := s.shipping.RecalculateOrder(order, e.Form); err != nil {
		log.Printf("shipping recalculation failed for order %d: %v", order.ID, err)
	}
}

func (s *recalcService) handleNewOrderItem(e *hooks.Event) {
	item, err := s.shippingRepo.GetByID(e.ItemID)
	if err != nil || item == nil {
		return
	}
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	if err := s.shipping.CalculateAndUpdate(item, order, e.Form); err != nil {
		log.Printf("shipping calculation failed for item %d: %v", item.ID, err)
	}
}

func (s *recalcService) markManualAdminOrder(e *hooks.Event) {
	order, err := s.orderRepo.GetByID(e.OrderID)
	if err != nil || order == nil {
		return
	}
	order.IsManualAdminOrder = true
	s.orderRepo.Update(order)
}

// SaveItemAddons handles the per-item AJAX save: fields are re-resolved
// from the posted selection and the line is priced from scratch. An
// explicit add-on edit releases any manual override on the line.
func (s *recalcService) SaveItemAddons(orderID, itemID uint, posted map[string]forms.AddonValue) (*models.OrderItem, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	item, err := s.orderItemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.OrderID != orderID {
		return nil, nil
	}

	product := s.productForItem(item)
	if product == nil {
		return nil, nil
	}

	fields, err := s.addons.FieldsForProduct(product)
	if err != nil {
		return nil, err
	}

	for _, field := range fields {
		delete(item.AddonMeta, field.Label)
	}

	display, addonCost := s.addons.Resolve(fields, posted)
	for label, text := range display {
		if item.AddonMeta == nil {
			item.AddonMeta = make(map[string]string)
		}
		item.AddonMeta[label] = text
	}

	newSubtotal := Round2((product.Price + addonCost) * float64(item.Quantity))
	item.ManualOverrideEnabled = false
	item.ManualTotalOverride = 0
	item.ManualSubtotalOverride = 0
	item.Subtotal = newSubtotal
	item.Total = newSubtotal

	exempt, _, _ := s.tax.ExemptStatus(order)
	dest := order.Destination()
	item.TotalTax = s.tax.CalcTax(item.Total, dest, exempt)
	item.SubtotalTax = s.tax.CalcTax(item.Subtotal, dest, exempt)

	if err := s.orderItemRepo.Update(item); err != nil {
		return nil, err
	}

	if err := s.coupons.Restore(order, false); err != nil {
		log.Printf("coupon restore failed for order %d: %v", order.ID, err)
	}

	return item, nil
}

// productForItem loads the priced product for a line: the variation when
// one is set, the product otherwise.
func (s *recalcService) productForItem(item *models.OrderItem) *models.Product {
	productID := item.ProductID
	if item.VariationID != 0 {
		productID = item.VariationID
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return nil
	}
	return product
}
