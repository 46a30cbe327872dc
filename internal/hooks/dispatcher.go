package hooks

import (
	"sort"
	"sync"

	"gscore/internal/forms"
)

// Hook names fired by the order save lifecycle.
const (
	// OrderProcessMeta runs during a full order-form save.
	OrderProcessMeta = "order.process_meta"
	// OrderItemsSaved runs after order items have been written, both on
	// full saves and on the item-level save flow.
	OrderItemsSaved = "order.items_saved"
	// OrderItemCreated runs when a new order item is attached.
	OrderItemCreated = "order.item_created"
	// OrderCreated runs once when an order is created.
	OrderCreated = "order.created"
)

// Event carries the save context into handlers.
type Event struct {
	Hook    string
	OrderID uint
	ItemID  uint // for OrderItemCreated
	// Form is the parsed request form for the in-flight save; nil when
	// the trigger carries no form data.
	Form *forms.OrderSaveForm
	// FullSave marks the full order-form submit, which defers the final
	// tax/total pass to the forced recalculation step.
	FullSave bool
	// CouponAction marks a request that is itself adding or removing a
	// coupon; the coupon guard skips such requests.
	CouponAction bool
}

type HandlerFunc func(e *Event)

type handlerEntry struct {
	priority int
	seq      int
	fn       HandlerFunc
}

// Dispatcher is a synchronous action bus. Handlers run in ascending
// priority order; equal priorities run in registration order. This is the
// only ordering guarantee between the recalculation sub-systems.
type Dispatcher struct {
	mu         sync.Mutex
	handlers   map[string][]handlerEntry
	seq        int
	registered map[string]bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers:   make(map[string][]handlerEntry),
		registered: make(map[string]bool),
	}
}

// AddAction registers fn on hook at the given priority.
func (d *Dispatcher) AddAction(hook string, priority int, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	entries := append(d.handlers[hook], handlerEntry{priority: priority, seq: d.seq, fn: fn})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
	d.handlers[hook] = entries
}

// DoAction fires every handler registered on e.Hook, synchronously and in
// priority order.
func (d *Dispatcher) DoAction(e *Event) {
	d.mu.Lock()
	entries := make([]handlerEntry, len(d.handlers[e.Hook]))
	copy(entries, d.handlers[e.Hook])
	d.mu.Unlock()

	for _, entry := range entries {
		entry.fn(e)
	}
}

// Once returns true the first time it is called with the given key.
// Components use it to guard against double hook registration.
func (d *Dispatcher) Once(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registered[key] {
		return false
	}
	d.registered[key] = true
	return true
}
