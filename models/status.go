package models

import "strings"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "placed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusServed    OrderStatus = "served"
	StatusCancelled OrderStatus = "cancelled"
)

// forwardSequence is the only order in which an order may progress.
var forwardSequence = []OrderStatus{StatusPlaced, StatusPreparing, StatusReady, StatusServed}

// ActiveStatuses are the statuses shown on the staff order board.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusPlaced, StatusPreparing, StatusReady}
}

// ParseOrderStatus normalizes user input into a known status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", NewValidationError("status", "unknown status %q", raw)
	}
	return s, nil
}

func (s OrderStatus) Valid() bool {
	return s == StatusCancelled || s.rank() >= 0
}

// IsTerminal reports whether no transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// Next returns the immediate forward successor of s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	r := s.rank()
	if r < 0 || r == len(forwardSequence)-1 {
		return "", false
	}
	return forwardSequence[r+1], true
}

// Cancellable reports whether s may jump to cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPlaced || s == StatusPreparing
}

func (s OrderStatus) rank() int {
	for i, st := range forwardSequence {
		if st == s {
			return i
		}
	}
	return -1
}

// CheckTransition validates moving an order from one status to another.
// It returns changed=false with a nil error when from == to, so repeated
// requests for the current status are harmless.
func CheckTransition(orderID string, from, to OrderStatus) (changed bool, err error) {
	if !to.Valid() {
		return false, NewValidationError("status", "unknown status %q", string(to))
	}
	if from == to {
		return false, nil
	}
	if to == StatusCancelled && from.Cancellable() {
		return true, nil
	}
	if next, ok := from.Next(); ok && next == to {
		return true, nil
	}
	return false, &InvalidTransitionError{OrderID: orderID, From: from, To: to}
}
