package types

import "fmt"

// OrderState is a step of the order lifecycle. Handlers only ever move an
// order one step forward; cancellation and rollback are not modelled.
type OrderState string

const (
	OrderCreated             OrderState = "CREATED"
	OrderApproved            OrderState = "APPROVED"
	OrderProductionScheduled OrderState = "PRODUCTION_SCHEDULED"
	OrderInvoiced            OrderState = "INVOICED"
	OrderPaid                OrderState = "PAID"
)

var orderLifecycle = []OrderState{
	OrderCreated,
	OrderApproved,
	OrderProductionScheduled,
	OrderInvoiced,
	OrderPaid,
}

// Next returns the state following s. The second value is false for PAID and
// for unknown states.
func (s OrderState) Next() (OrderState, bool) {
	for i, st := range orderLifecycle {
		if st == s && i+1 < len(orderLifecycle) {
			return orderLifecycle[i+1], true
		}
	}
	return "", false
}

// Advance validates a single forward transition.
func Advance(from, to OrderState) (OrderState, error) {
	next, ok := from.Next()
	if !ok || next != to {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}
