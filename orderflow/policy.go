package orderflow

import (
	"errors"
	"strings"

	"github.com/tableside/restaurant-order/models"
)

// Policy decides whether a status transition is permitted. The order
// controller consults the configured policy before every update, so
// either rule set can be enforced without touching the handler.
type Policy interface {
	Allow(from, to string) error
}

// Unrestricted permits any status to move to any status. This matches the
// behavior staff rely on to correct mistakes (e.g. pulling an order back
// from served) and is the default.
type Unrestricted struct{}

func (Unrestricted) Allow(from, to string) error { return nil }

// Sequential enforces pending -> preparing -> served -> paid with no
// skipping, and no transitions out of paid.
type Sequential struct{}

// nextStatus is the authoritative transition table for Sequential.
var nextStatus = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPreparing},
	models.OrderStatusPreparing: {models.OrderStatusServed},
	models.OrderStatusServed:    {models.OrderStatusPaid},
	models.OrderStatusPaid:      {},
}

func (Sequential) Allow(from, to string) error {
	allowed, ok := nextStatus[from]
	if !ok {
		return errors.New("unknown status: " + from)
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	if len(allowed) == 0 {
		return errors.New("cannot change status of a paid order")
	}
	return errors.New("cannot move from " + from + " to " + to +
		"; valid next status: " + strings.Join(allowed, ", "))
}

// FromEnv picks the policy for an ORDER_FLOW_POLICY value: "strict"
// selects Sequential, anything else Unrestricted.
func FromEnv(value string) Policy {
	if strings.EqualFold(strings.TrimSpace(value), "strict") {
		return Sequential{}
	}
	return Unrestricted{}
}
