package services

import (
	"sort"

	"gscore/internal/models"
)

// In-memory repository stand-ins backing the service tests.

type fakeOrderRepo struct {
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*models.Order)}
}

func (r *fakeOrderRepo) Create(order *models.Order) error {
	r.nextID++
	order.ID = r.nextID
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Update(order *models.Order) error {
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) Delete(id uint) error {
	delete(r.orders, id)
	return nil
}

type fakeOrderItemRepo struct {
	items  map[uint]*models.OrderItem
	nextID uint
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{items: make(map[uint]*models.OrderItem)}
}

func (r *fakeOrderItemRepo) Create(item *models.OrderItem) error {
	r.nextID++
	item.ID = r.nextID
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeOrderItemRepo) GetByID(id uint) (*models.OrderItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeOrderItemRepo) GetByOrderID(orderID uint) ([]*models.OrderItem, error) {
	var out []*models.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOrderItemRepo) Update(item *models.OrderItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeOrderItemRepo) Delete(id uint) error {
	delete(r.items, id)
	return nil
}

type fakeShippingItemRepo struct {
	items  map[uint]*models.OrderShippingItem
	nextID uint
}

func newFakeShippingItemRepo() *fakeShippingItemRepo {
	return &fakeShippingItemRepo{items: make(map[uint]*models.OrderShippingItem)}
}

func (r *fakeShippingItemRepo) Create(item *models.OrderShippingItem) error {
	r.nextID++
	item.ID = r.nextID
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeShippingItemRepo) GetByID(id uint) (*models.OrderShippingItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeShippingItemRepo) GetByOrderID(orderID uint) ([]*models.OrderShippingItem, error) {
	var out []*models.OrderShippingItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShippingItemRepo) Update(item *models.OrderShippingItem) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeShippingItemRepo) Delete(id uint) error {
	delete(r.items, id)
	return nil
}

type fakeCouponItemRepo struct {
	items  map[uint]*models.OrderCouponItem
	nextID uint
}

func newFakeCouponItemRepo() *fakeCouponItemRepo {
	return &fakeCouponItemRepo{items: make(map[uint]*models.OrderCouponItem)}
}

func (r *fakeCouponItemRepo) Create(item *models.OrderCouponItem) error {
	r.nextID++
	item.ID = r.nextID
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeCouponItemRepo) GetByOrderID(orderID uint) ([]*models.OrderCouponItem, error) {
	var out []*models.OrderCouponItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCouponItemRepo) Delete(id uint) error {
	delete(r.items, id)
	return nil
}

type fakeProductRepo struct {
	products map[uint]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uint]*models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) Update(product *models.Product) error {
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

type fakeFieldGroupRepo struct {
	groups map[uint]*models.FieldGroup
}

func newFakeFieldGroupRepo(groups ...*models.FieldGroup) *fakeFieldGroupRepo {
	r := &fakeFieldGroupRepo{groups: make(map[uint]*models.FieldGroup)}
	for _, g := range groups {
		r.groups[g.ProductID] = g
	}
	return r
}

func (r *fakeFieldGroupRepo) GetByProductID(productID uint) (*models.FieldGroup, error) {
	group, ok := r.groups[productID]
	if !ok {
		return nil, nil
	}
	return group, nil
}

type fakeShippingMethodRepo struct {
	methods map[uint]*models.ShippingZoneMethod
}

func newFakeShippingMethodRepo(methods ...*models.ShippingZoneMethod) *fakeShippingMethodRepo {
	r := &fakeShippingMethodRepo{methods: make(map[uint]*models.ShippingZoneMethod)}
	for _, m := range methods {
		r.methods[m.InstanceID] = m
	}
	return r
}

func (r *fakeShippingMethodRepo) GetByInstanceID(instanceID uint) (*models.ShippingZoneMethod, error) {
	method, ok := r.methods[instanceID]
	if !ok {
		return nil, nil
	}
	return method, nil
}

type fakeCouponRepo struct {
	coupons map[string]*models.Coupon
}

func newFakeCouponRepo(coupons ...*models.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *fakeCouponRepo) GetByCode(code string) (*models.Coupon, error) {
	coupon, ok := r.coupons[code]
	if !ok {
		return nil, nil
	}
	return coupon, nil
}

type fakeSettingsRepo struct {
	values map[string]string
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: make(map[string]string)}
}

func (r *fakeSettingsRepo) Get(key string) (string, bool, error) {
	value, ok := r.values[key]
	return value, ok, nil
}

func (r *fakeSettingsRepo) Set(key, value string) error {
	r.values[key] = value
	return nil
}

type fakeTaxRateRepo struct {
	rates []models.TaxRate
}

func (r *fakeTaxRateRepo) Find(country, state string) ([]models.TaxRate, error) {
	var out []models.TaxRate
	for _, rate := range r.rates {
		if rate.Country != country {
			continue
		}
		if rate.State != "" && rate.State != state {
			continue
		}
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State > out[j].State })
	return out, nil
}

type fakeRecalcLogRepo struct {
	entries []*models.RecalcLog
}

func (r *fakeRecalcLogRepo) Create(entry *models.RecalcLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByRole(role string) ([]models.User, error) {
	var out []models.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}
