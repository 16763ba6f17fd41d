package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/utils"
)

func TestSubscribeOrdersReceivesSnapshot(t *testing.T) {
	utils.InitLogger()
	ch, cancel := SubscribeOrders()
	defer cancel()

	PublishOrders([]models.Order{{ID: 1}, {ID: 2}})

	orders := <-ch
	assert.Len(t, orders, 2)
	assert.Equal(t, uint(1), orders[0].ID)
}

func TestSlowConsumerSeesNewestSnapshot(t *testing.T) {
	utils.InitLogger()
	ch, cancel := SubscribeOrders()
	defer cancel()

	PublishOrders([]models.Order{{ID: 1}})
	PublishOrders([]models.Order{{ID: 1}, {ID: 2}, {ID: 3}})

	// the stale snapshot was replaced, not queued
	orders := <-ch
	assert.Len(t, orders, 3)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued snapshot: %v", extra)
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	utils.InitLogger()
	ch, cancel := SubscribeOrders()
	cancel()

	PublishOrders([]models.Order{{ID: 1}})

	select {
	case <-ch:
		t.Fatal("cancelled subscriber still received a snapshot")
	default:
	}
}

func TestSubscribeMenus(t *testing.T) {
	utils.InitLogger()
	ch, cancel := SubscribeMenus()
	defer cancel()

	PublishMenus([]models.Menu{{ID: 1, Name: "Tea"}})

	menus := <-ch
	assert.Len(t, menus, 1)
	assert.Equal(t, "Tea", menus[0].Name)
}
