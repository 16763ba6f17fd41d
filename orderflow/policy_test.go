package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tableside/restaurant-order/models"
)

func TestUnrestrictedAllowsEverything(t *testing.T) {
	p := Unrestricted{}
	statuses := []string{
		models.OrderStatusPending,
		models.OrderStatusPreparing,
		models.OrderStatusServed,
		models.OrderStatusPaid,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.NoError(t, p.Allow(from, to))
		}
	}
}

func TestSequentialHappyPath(t *testing.T) {
	p := Sequential{}
	assert.NoError(t, p.Allow(models.OrderStatusPending, models.OrderStatusPreparing))
	assert.NoError(t, p.Allow(models.OrderStatusPreparing, models.OrderStatusServed))
	assert.NoError(t, p.Allow(models.OrderStatusServed, models.OrderStatusPaid))
}

func TestSequentialRejectsSkipsAndReversals(t *testing.T) {
	p := Sequential{}
	assert.Error(t, p.Allow(models.OrderStatusPending, models.OrderStatusServed))
	assert.Error(t, p.Allow(models.OrderStatusPending, models.OrderStatusPaid))
	assert.Error(t, p.Allow(models.OrderStatusServed, models.OrderStatusPreparing))
}

func TestSequentialPaidIsTerminal(t *testing.T) {
	p := Sequential{}
	for _, to := range []string{
		models.OrderStatusPending,
		models.OrderStatusPreparing,
		models.OrderStatusServed,
	} {
		err := p.Allow(models.OrderStatusPaid, to)
		assert.EqualError(t, err, "cannot change status of a paid order")
	}
}

func TestFromEnv(t *testing.T) {
	assert.IsType(t, Sequential{}, FromEnv("strict"))
	assert.IsType(t, Sequential{}, FromEnv("  STRICT "))
	assert.IsType(t, Unrestricted{}, FromEnv(""))
	assert.IsType(t, Unrestricted{}, FromEnv("lenient"))
}
