package services

import (
	"testing"

	"gscore/internal/forms"
	"gscore/internal/models"

	"github.com/stretchr/testify/require"
)

type shippingFixture struct {
	svc          ShippingService
	orderRepo    *fakeOrderRepo
	itemRepo     *fakeOrderItemRepo
	shippingRepo *fakeShippingItemRepo
	settings     *fakeSettingsRepo
}

func newShippingFixture(t *testing.T, products ...*models.Product) *shippingFixture {
	t.Helper()

	method := &models.ShippingZoneMethod{
		InstanceID: 1,
		MethodID:   models.FlexibleShippingMethodID,
		Enabled:    true,
		Title:      "Freight Delivery",
		TaxStatus:  "taxable",
		CostRules: []models.ShippingCostRule{
			{MinValue: 0, MaxValue: 500, Cost: 60},
			{MinValue: 500, MaxValue: 2000, Cost: 120},
			{MinValue: 2000, MaxValue: 0, Cost: 120, CostPerUnit: 25, PerValue: 1000},
		},
	}

	f := &shippingFixture{
		orderRepo:    newFakeOrderRepo(),
		itemRepo:     newFakeOrderItemRepo(),
		shippingRepo: newFakeShippingItemRepo(),
		settings:     newFakeSettingsRepo(),
	}
	f.settings.Set(models.OptionRegionalMarkupsZip, "07876 20")
	f.settings.Set(models.OptionRegionalMarkupsState, "NJ 20")

	markup := NewMarkupService(f.settings, nil, 0)
	tax := NewTaxService(&fakeTaxRateRepo{}, newFakeUserRepo())
	f.svc = NewShippingService(
		newFakeShippingMethodRepo(method),
		f.shippingRepo,
		f.itemRepo,
		newFakeProductRepo(products...),
		newFakeCouponItemRepo(),
		markup,
		tax,
	)
	return f
}

func (f *shippingFixture) addOrder(t *testing.T, state, zip string) *models.Order {
	t.Helper()
	order := &models.Order{ShippingCountry: "US", ShippingState: state, ShippingPostcode: zip}
	require.NoError(t, f.orderRepo.Create(order))
	return order
}

func TestCalculateAndUpdatePicksBandAndMarkup(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "TX", "73301")

	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1, Total: 100, Subtotal: 100})
	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "flexible_shipping_1"}
	f.shippingRepo.Create(item)

	require.NoError(t, f.svc.CalculateAndUpdate(item, order, nil))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.Equal(t, 60.0, saved.Total)
	require.Equal(t, "Freight Delivery", saved.Name)

	// Contents cost in the second band.
	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 6, Total: 600, Subtotal: 600})
	require.NoError(t, f.svc.CalculateAndUpdate(saved, order, nil))
	saved, _ = f.shippingRepo.GetByID(item.ID)
	require.Equal(t, 120.0, saved.Total)
}

func TestCalculateAndUpdateAppliesRegionalMarkup(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "NJ", "07876")

	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1, Total: 100, Subtotal: 100})
	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "flexible_shipping_1"}
	f.shippingRepo.Create(item)

	require.NoError(t, f.svc.CalculateAndUpdate(item, order, nil))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	// 60 base with the 20% ZIP markup.
	require.Equal(t, 72.0, saved.Total)
}

func TestCalculateAndUpdatePerUnitBand(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "TX", "73301")

	// 3500 contents cost: 120 + 25 per whole 1000 above 2000.
	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 35, Total: 3500, Subtotal: 3500})
	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "flexible_shipping_1"}
	f.shippingRepo.Create(item)

	require.NoError(t, f.svc.CalculateAndUpdate(item, order, nil))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.Equal(t, 145.0, saved.Total)
}

func TestCalculateAndUpdateManualOverride(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "TX", "73301")

	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1, Total: 100, Subtotal: 100})
	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "flexible_shipping_1", Total: 60}
	f.shippingRepo.Create(item)

	// Admin types 75 where the calculation says 60: the posted cost wins.
	form := &forms.OrderSaveForm{
		ShippingCosts:          map[uint]float64{item.ID: 75},
		ShippingMethods:        map[uint]string{item.ID: "flexible_shipping_1"},
		ManualShippingOverride: map[uint]bool{},
	}
	require.NoError(t, f.svc.CalculateAndUpdate(item, order, form))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.True(t, saved.ManualOverride)
	require.Equal(t, 75.0, saved.Total)

	// A later save re-posting 75 keeps the override in force.
	require.NoError(t, f.svc.CalculateAndUpdate(saved, order, form))
	saved, _ = f.shippingRepo.GetByID(item.ID)
	require.True(t, saved.ManualOverride)
	require.Equal(t, 75.0, saved.Total)

	// Posting the calculated cost again releases the override.
	release := &forms.OrderSaveForm{
		ShippingCosts:          map[uint]float64{item.ID: 60},
		ShippingMethods:        map[uint]string{item.ID: "flexible_shipping_1"},
		ManualShippingOverride: map[uint]bool{},
	}
	require.NoError(t, f.svc.CalculateAndUpdate(saved, order, release))
	saved, _ = f.shippingRepo.GetByID(item.ID)
	require.False(t, saved.ManualOverride)
	require.Equal(t, 60.0, saved.Total)
}

func TestCalculateAndUpdatePositionalFallback(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "TX", "73301")

	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1, Total: 100, Subtotal: 100})

	// Item without a persisted method id; the single posted method keyed
	// by a mismatched id still resolves positionally.
	item := &models.OrderShippingItem{OrderID: order.ID}
	f.shippingRepo.Create(item)

	form := &forms.OrderSaveForm{
		ShippingCosts:           map[uint]float64{9999: 60},
		PositionalShippingCosts: []float64{60},
		ShippingMethods:         map[uint]string{9999: "flexible_shipping_1"},
		ManualShippingOverride:  map[uint]bool{},
	}
	require.NoError(t, f.svc.CalculateAndUpdate(item, order, form))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.Equal(t, "flexible_shipping_1", saved.MethodID)
	require.Equal(t, 60.0, saved.Total)
}

func TestCalculateAndUpdateEmptyPackage(t *testing.T) {
	t.Parallel()

	f := newShippingFixture(t)
	order := f.addOrder(t, "TX", "73301")

	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "flexible_shipping_1", Total: 60}
	f.shippingRepo.Create(item)

	require.NoError(t, f.svc.CalculateAndUpdate(item, order, nil))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.Equal(t, 0.0, saved.Total)
	require.Equal(t, "Freight Delivery", saved.Name)
}

func TestCalculateAndUpdateIgnoresForeignMethods(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	f := newShippingFixture(t, safe)
	order := f.addOrder(t, "TX", "73301")

	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: "free_shipping", Total: 10}
	f.shippingRepo.Create(item)

	require.NoError(t, f.svc.CalculateAndUpdate(item, order, nil))
	saved, _ := f.shippingRepo.GetByID(item.ID)
	require.Equal(t, 10.0, saved.Total)
}

func TestBuildPackageSkipsVirtualProducts(t *testing.T) {
	t.Parallel()

	safe := &models.Product{ID: 1, Name: "Safe", Price: 100, NeedsShipping: true}
	warranty := &models.Product{ID: 2, Name: "Warranty", Price: 50, NeedsShipping: false}
	f := newShippingFixture(t, safe, warranty)
	order := f.addOrder(t, "TX", "73301")

	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 2, Total: 200, Subtotal: 200})
	f.itemRepo.Create(&models.OrderItem{OrderID: order.ID, ProductID: 2, Quantity: 1, Total: 50, Subtotal: 50})

	pkg, err := f.svc.BuildPackage(order)
	require.NoError(t, err)
	require.Len(t, pkg.Contents, 1)
	require.Equal(t, 200.0, pkg.ContentsCost)
	require.Equal(t, "US", pkg.Destination.Country)
}
