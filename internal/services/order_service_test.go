package services

import (
	"testing"

	"gscore/internal/models"

	"github.com/stretchr/testify/require"
)

func newOrderFixture(t *testing.T) (OrderService, *fakeOrderRepo, *fakeOrderItemRepo, *fakeShippingItemRepo, *fakeCouponItemRepo) {
	t.Helper()
	orderRepo := newFakeOrderRepo()
	itemRepo := newFakeOrderItemRepo()
	shippingRepo := newFakeShippingItemRepo()
	couponItemRepo := newFakeCouponItemRepo()
	userRepo := newFakeUserRepo(
		&models.User{ID: 1, Username: "jsmith", Role: models.RoleClient},
		&models.User{ID: 2, Username: "admin", Role: models.RoleAdmin},
	)
	tax := NewTaxService(&fakeTaxRateRepo{rates: []models.TaxRate{
		{Country: "US", State: "NJ", Rate: 6.625, Shipping: true},
	}}, userRepo)
	svc := NewOrderService(orderRepo, itemRepo, shippingRepo, couponItemRepo, userRepo, tax)
	return svc, orderRepo, itemRepo, shippingRepo, couponItemRepo
}

func TestCreateOrderAttributesCreator(t *testing.T) {
	t.Parallel()

	svc, orderRepo, _, _, _ := newOrderFixture(t)

	creator := &models.User{ID: 2, Username: "admin"}
	order := &models.Order{}
	require.NoError(t, svc.CreateOrder(order, creator))
	require.NotEmpty(t, order.OrderNumber)
	require.True(t, order.IsManualAdminOrder)
	require.Equal(t, "admin", order.SalesRep)
	require.Equal(t, uint(2), order.CreatedBy)

	saved, _ := orderRepo.GetByID(order.ID)
	require.NotNil(t, saved)
}

func TestCreateOrderWithoutCreatorDefaultsSalesRep(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newOrderFixture(t)

	order := &models.Order{}
	require.NoError(t, svc.CreateOrder(order, nil))
	require.Equal(t, "N/A", order.SalesRep)
	require.False(t, order.IsManualAdminOrder)
}

func TestCalculateTotalsRollsUp(t *testing.T) {
	t.Parallel()

	svc, orderRepo, itemRepo, shippingRepo, couponItemRepo := newOrderFixture(t)

	order := &models.Order{ShippingCountry: "US", ShippingState: "TX"}
	require.NoError(t, orderRepo.Create(order))
	itemRepo.Create(&models.OrderItem{OrderID: order.ID, Subtotal: 250, Total: 250})
	itemRepo.Create(&models.OrderItem{OrderID: order.ID, Subtotal: 100, Total: 100})
	shippingRepo.Create(&models.OrderShippingItem{OrderID: order.ID, Total: 60})
	couponItemRepo.Create(&models.OrderCouponItem{OrderID: order.ID, Code: "SAVE10", Discount: 35})

	require.NoError(t, svc.CalculateTotals(order))
	require.Equal(t, 350.0, order.ItemsSubtotal)
	require.Equal(t, 350.0, order.ItemsTotal)
	require.Equal(t, 60.0, order.ShippingTotal)
	require.Equal(t, 35.0, order.DiscountTotal)
	require.Equal(t, 375.0, order.Total)
}

func TestCalculateTotalsClampsAtZero(t *testing.T) {
	t.Parallel()

	svc, orderRepo, itemRepo, _, couponItemRepo := newOrderFixture(t)

	order := &models.Order{}
	require.NoError(t, orderRepo.Create(order))
	itemRepo.Create(&models.OrderItem{OrderID: order.ID, Subtotal: 10, Total: 10})
	couponItemRepo.Create(&models.OrderCouponItem{OrderID: order.ID, Code: "BIG", Discount: 50})

	require.NoError(t, svc.CalculateTotals(order))
	require.Equal(t, 0.0, order.Total)
}

func TestCalculateTaxesWritesLineTax(t *testing.T) {
	t.Parallel()

	svc, orderRepo, itemRepo, shippingRepo, _ := newOrderFixture(t)

	order := &models.Order{ShippingCountry: "US", ShippingState: "NJ"}
	require.NoError(t, orderRepo.Create(order))
	line := &models.OrderItem{OrderID: order.ID, Subtotal: 100, Total: 100}
	itemRepo.Create(line)
	ship := &models.OrderShippingItem{OrderID: order.ID, Total: 60}
	shippingRepo.Create(ship)

	require.NoError(t, svc.CalculateTaxes(order))
	savedLine, _ := itemRepo.GetByID(line.ID)
	require.Equal(t, 6.63, savedLine.TotalTax)
	savedShip, _ := shippingRepo.GetByID(ship.ID)
	require.Equal(t, 3.98, savedShip.TotalTax)
}

func TestCalculateTaxesHonorsExemption(t *testing.T) {
	t.Parallel()

	svc, orderRepo, itemRepo, _, _ := newOrderFixture(t)

	order := &models.Order{ShippingCountry: "US", ShippingState: "NJ", TaxExempt: true}
	require.NoError(t, orderRepo.Create(order))
	line := &models.OrderItem{OrderID: order.ID, Subtotal: 100, Total: 100, TotalTax: 6.63}
	itemRepo.Create(line)

	require.NoError(t, svc.CalculateTaxes(order))
	savedLine, _ := itemRepo.GetByID(line.ID)
	require.Zero(t, savedLine.TotalTax)
}

func TestQuoteGuards(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newOrderFixture(t)

	quote := &models.Order{Status: string(models.OrderQuote)}
	live := &models.Order{Status: string(models.OrderProcessing)}
	item := &models.OrderItem{Quantity: 3}

	require.Zero(t, svc.StockQuantityFor(quote, item))
	require.Equal(t, 3, svc.StockQuantityFor(live, item))

	require.False(t, svc.EmailsEnabled(quote))
	require.True(t, svc.EmailsEnabled(live))
}

func TestSalesRepChoicesListsClients(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newOrderFixture(t)

	reps, err := svc.SalesRepChoices()
	require.NoError(t, err)
	require.Len(t, reps, 1)
	require.Equal(t, "jsmith", reps[0].Username)
}
