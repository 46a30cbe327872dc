package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gscore/internal/forms"
	"gscore/internal/hooks"
	"gscore/internal/models"
	"gscore/internal/redis"
	"gscore/internal/repository"
	"gscore/internal/services"

	"github.com/gin-gonic/gin"
)

// Nonce action protecting the per-item AJAX save.
const nonceActionOrderItem = "order-item"

type OrderHandler struct {
	dispatcher       *hooks.Dispatcher
	orderService     services.OrderService
	recalcService    services.RecalcService
	couponService    services.CouponService
	taxService       services.TaxService
	orderItemRepo    repository.OrderItemRepository
	shippingItemRepo repository.ShippingItemRepository
	productRepo      repository.ProductRepository
	cache            *redis.Client
	nonceTTL         time.Duration
}

func NewOrderHandler(
	dispatcher *hooks.Dispatcher,
	orderService services.OrderService,
	recalcService services.RecalcService,
	couponService services.CouponService,
	taxService services.TaxService,
	orderItemRepo repository.OrderItemRepository,
	shippingItemRepo repository.ShippingItemRepository,
	productRepo repository.ProductRepository,
	cache *redis.Client,
	nonceTTL time.Duration,
) *OrderHandler {
	return &OrderHandler{
		dispatcher:       dispatcher,
		orderService:     orderService,
		recalcService:    recalcService,
		couponService:    couponService,
		taxService:       taxService,
		orderItemRepo:    orderItemRepo,
		shippingItemRepo: shippingItemRepo,
		productRepo:      productRepo,
		cache:            cache,
		nonceTTL:         nonceTTL,
	}
}

// CreateOrder creates an admin order and fires the order-created hook,
// which marks it as a manual admin order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Status           string `json:"status"`
		CustomerID       uint   `json:"customer_id"`
		ShippingCountry  string `json:"shipping_country"`
		ShippingState    string `json:"shipping_state"`
		ShippingPostcode string `json:"shipping_postcode"`
		ShippingCity     string `json:"shipping_city"`
		ShippingAddress1 string `json:"shipping_address_1"`
		ShippingAddress2 string `json:"shipping_address_2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order := &models.Order{
		Status:           req.Status,
		CustomerID:       req.CustomerID,
		ShippingCountry:  defaultCountry(req.ShippingCountry),
		ShippingState:    req.ShippingState,
		ShippingPostcode: req.ShippingPostcode,
		ShippingCity:     req.ShippingCity,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
	}

	if err := h.orderService.CreateOrder(order, currentUser(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderCreated, OrderID: order.ID})

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}
	items, err := h.orderService.GetLineItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order items"})
		return
	}
	shipping, err := h.shippingItemRepo.GetByOrderID(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order items"})
		return
	}
	// Quote orders send no customer emails; the edit screen surfaces that.
	c.JSON(http.StatusOK, gin.H{
		"order":          order,
		"items":          items,
		"shipping":       shipping,
		"emails_enabled": h.orderService.EmailsEnabled(order),
	})
}

// SaveOrder is the full order-form submit. The items-saved chain runs
// first and the meta chain follows, so shipping is repriced before the
// add-on pass and the forced recalculation closes out the save.
func (h *OrderHandler) SaveOrder(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	form := forms.ParseOrderSave(c.Request.PostForm)

	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderItemsSaved, OrderID: order.ID, Form: form, FullSave: true})
	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderProcessMeta, OrderID: order.ID, Form: form, FullSave: true})

	h.respondWithOrder(c, order.ID)
}

// SaveOrderItems is the item-save flow: only the items-saved chain runs
// and the add-on pass recalculates totals immediately.
func (h *OrderHandler) SaveOrderItems(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	form := forms.ParseOrderSave(c.Request.PostForm)

	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderItemsSaved, OrderID: order.ID, Form: form})

	h.respondWithOrder(c, order.ID)
}

// AddLineItem attaches a product line priced at the catalog price.
func (h *OrderHandler) AddLineItem(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	var req struct {
		ProductID   uint `json:"product_id" binding:"required"`
		VariationID uint `json:"variation_id"`
		Quantity    int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	productID := req.ProductID
	if req.VariationID != 0 {
		productID = req.VariationID
	}
	product, err := h.productRepo.GetByID(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	lineTotal := services.Round2(product.Price * float64(req.Quantity))
	item := &models.OrderItem{
		OrderID:     order.ID,
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		Name:        product.Name,
		Quantity:    req.Quantity,
		Subtotal:    lineTotal,
		Total:       lineTotal,
	}
	if err := h.orderItemRepo.Create(item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	// Quote orders reserve no stock.
	if qty := h.orderService.StockQuantityFor(order, item); qty > 0 {
		product.Stock -= qty
		if err := h.productRepo.Update(product); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
			return
		}
	}

	c.JSON(http.StatusCreated, item)
}

// AddShippingItem attaches a shipping method to the order and fires the
// item-created hook, which prices it.
func (h *OrderHandler) AddShippingItem(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	var req struct {
		MethodID string `json:"method_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item := &models.OrderShippingItem{OrderID: order.ID, MethodID: req.MethodID}
	if err := h.shippingItemRepo.Create(item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add shipping item"})
		return
	}

	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderItemCreated, OrderID: order.ID, ItemID: item.ID})

	updated, err := h.shippingItemRepo.GetByID(item.ID)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload shipping item"})
		return
	}
	c.JSON(http.StatusCreated, updated)
}

// ApplyCoupon adds a discount code. Coupon actions skip the
// preservation guard so the backup does not fight the change.
func (h *OrderHandler) ApplyCoupon(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.couponService.ApplyCoupon(order, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon could not be applied"})
		return
	}

	// The recalculation runs as a coupon action, so the preservation
	// guard leaves the change alone.
	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderItemsSaved, OrderID: order.ID, CouponAction: true})

	h.respondWithOrder(c, order.ID)
}

func (h *OrderHandler) RemoveCoupon(c *gin.Context) {
	order := h.lookupOrder(c)
	if order == nil {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.couponService.RemoveCoupon(order, req.Code); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove coupon"})
		return
	}

	h.dispatcher.DoAction(&hooks.Event{Hook: hooks.OrderItemsSaved, OrderID: order.ID, CouponAction: true})

	h.respondWithOrder(c, order.ID)
}

// IssueNonce hands out the token the order-edit screen uses for item
// AJAX saves.
func (h *OrderHandler) IssueNonce(c *gin.Context) {
	var userID uint
	if user := currentUser(c); user != nil {
		userID = user.ID
	}
	token, err := h.cache.IssueNonce(nonceActionOrderItem, userID, h.nonceTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue nonce"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": token})
}

// AjaxSaveItemAddons is the per-item add-on save. Lookup failures answer
// success:false with no detail.
func (h *OrderHandler) AjaxSaveItemAddons(c *gin.Context) {
	var req struct {
		Security        string            `json:"security"`
		OrderID         uint              `json:"order_id"`
		ItemID          uint              `json:"item_id"`
		OrderItemAddons []forms.InputPair `json:"order_item_addons"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	ok, err := h.cache.CheckNonce(nonceActionOrderItem, req.Security)
	if err != nil || !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid nonce"})
		return
	}

	posted := forms.ParseAddonPairs(req.OrderItemAddons, req.ItemID)

	item, err := h.recalcService.SaveItemAddons(req.OrderID, req.ItemID, posted)
	if err != nil || item == nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, itemAddonSavePayload(item))
}

// AjaxTaxExempt reports the order's effective tax-exempt status, falling
// back to the customer account when the order carries no flag.
func (h *OrderHandler) AjaxTaxExempt(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	order, err := h.orderService.GetOrder(uint(orderID))
	if err != nil || order == nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	exempt, number, err := h.taxService.ExemptStatus(order)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exempt": exempt, "number": number})
}

// SalesReps lists the users offered in the sales-rep selector.
func (h *OrderHandler) SalesReps(c *gin.Context) {
	reps, err := h.orderService.SalesRepChoices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sales reps"})
		return
	}
	c.JSON(http.StatusOK, reps)
}

func (h *OrderHandler) lookupOrder(c *gin.Context) *models.Order {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return nil
	}
	order, err := h.orderService.GetOrder(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return nil
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil
	}
	return order
}

func (h *OrderHandler) respondWithOrder(c *gin.Context, orderID uint) {
	order, err := h.orderService.GetOrder(orderID)
	if err != nil || order == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload order"})
		return
	}
	items, err := h.orderService.GetLineItems(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func defaultCountry(country string) string {
	if country == "" {
		return "US"
	}
	return country
}

func taxCellHTML(item *models.OrderItem) string {
	return fmt.Sprintf(`<span class="line_tax">%s</span>`, services.FormatPrice(item.TotalTax))
}

// The edit screen patches the edited row's cells, so the payload carries
// the item's numbers, not the order rollup.
func itemAddonSavePayload(item *models.OrderItem) gin.H {
	return gin.H{
		"success":      true,
		"html":         taxCellHTML(item),
		"subtotal":     services.FormatPrice(item.Subtotal),
		"total":        services.FormatPrice(item.Total),
		"subtotal_raw": item.Subtotal,
		"total_raw":    item.Total,
	}
}
