package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/utils"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Menu{},
		&models.Order{},
		&models.OrderLine{},
		&models.CartSnapshot{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedMenu(t *testing.T, db *gorm.DB) models.Menu {
	menu := models.Menu{Name: "Burger", Price: 10, Status: models.MenuStatusActive}
	assert.NoError(t, menu.SetAddOns([]models.AddOn{
		{Name: "Cheese", Price: 1.5},
		{Name: "Bacon", Price: 2},
	}))
	assert.NoError(t, db.Create(&menu).Error)
	return menu
}

func TestSubmitFreezesCartIntoOrder(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)
	menu := seedMenu(t, db)

	assert.NoError(t, carts.AddLine("k1", menu, []models.AddOn{{Name: "Cheese", Price: 1.5}}))
	assert.NoError(t, carts.AddLine("k1", menu, nil))

	order, err := svc.Submit("k1", "T3")
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, "T3", order.TableNo)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 21.5, order.TotalAmount)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Burger", order.Items[0].Name)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 11.5, order.Items[0].SubTotal)
	assert.Equal(t, []models.AddOn{{Name: "Cheese", Price: 1.5}}, order.Items[0].GetAddOns())

	// cart is cleared only after the order is durable
	c, err := carts.Get("k1")
	assert.NoError(t, err)
	assert.True(t, c.Empty())

	var stored models.Order
	assert.NoError(t, db.Preload("Items").First(&stored, order.ID).Error)
	assert.Len(t, stored.Items, 2)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)

	_, err := svc.Submit("k1", "T3")
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestResolveTableNo(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)

	// explicit argument wins
	assert.NoError(t, carts.SetTableNo("k1", "T9"))
	assert.Equal(t, "T3", svc.ResolveTableNo("k1", "T3"))

	// stored context is the fallback
	assert.Equal(t, "T9", svc.ResolveTableNo("k1", ""))

	// nothing resolvable degrades to the sentinel
	assert.Equal(t, UnknownTable, svc.ResolveTableNo("k2", ""))
}

func TestSubmitWithoutTableUsesSentinel(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)
	menu := seedMenu(t, db)

	assert.NoError(t, carts.AddLine("k1", menu, nil))

	order, err := svc.Submit("k1", "")
	assert.NoError(t, err)
	assert.Equal(t, "UNKNOWN", order.TableNo)
}

func TestSubmitSnapshotsIgnoreLaterMenuEdits(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)
	menu := seedMenu(t, db)

	assert.NoError(t, carts.AddLine("k1", menu, nil))

	// reprice the catalog item between add and checkout
	assert.NoError(t, db.Model(&models.Menu{}).
		Where("id = ?", menu.ID).
		Update("price", 99.0).Error)

	order, err := svc.Submit("k1", "T1")
	assert.NoError(t, err)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 10.0, order.TotalAmount)
}

func TestFailedSubmitLeavesCartIntact(t *testing.T) {
	db := setupServiceDB(t)
	carts := cart.NewStore(db)
	svc := NewOrderService(db, carts)
	menu := seedMenu(t, db)

	assert.NoError(t, carts.AddLine("k1", menu, nil))

	assert.NoError(t, db.Migrator().DropTable(&models.OrderLine{}))

	_, err := svc.Submit("k1", "T1")
	assert.Error(t, err)

	c, err := carts.Get("k1")
	assert.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}
