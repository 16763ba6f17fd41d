package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/orderflow"
	"github.com/tableside/restaurant-order/router"
	"github.com/tableside/restaurant-order/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestWalkInOrderingFlow walks the main path end to end:
// 1. Seed a staff user and the menu
// 2. Customer scans a table, fills a cart, checks out
// 3. Staff logs in, walks the order to paid
// 4. The board empties and the sales report picks the order up
// 5. The ledger export carries the order
func TestWalkInOrderingFlow(t *testing.T) {
	db := setupIntegrationDB(t)
	carts := cart.NewStore(db)
	r := router.SetupRouter(db, carts, orderflow.Unrestricted{})

	token := loginAdmin(t, r)

	// customer side
	scanTable(t, r, "T5")
	menuID := browseMenus(t, r)
	addToCart(t, r, menuID, []string{"Cheese"})
	addToCart(t, r, menuID, nil)
	orderID := checkout(t, r)

	// staff side
	for _, status := range []string{"preparing", "served"} {
		updateStatus(t, r, token, orderID, status, http.StatusOK)
	}
	assert.Equal(t, 1, boardSize(t, r, token))

	updateStatus(t, r, token, orderID, "paid", http.StatusOK)
	assert.Equal(t, 0, boardSize(t, r, token))

	checkSalesReport(t, r, token)
	checkLedgerExport(t, r, token)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Menu{},
		&models.Order{},
		&models.OrderLine{},
		&models.CartSnapshot{},
		&models.DBChange{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name: "Admin", Email: "admin@example.com",
		Password: string(hashed), Role: "admin",
	})

	menu := models.Menu{Name: "Burger", Price: 10, Status: models.MenuStatusActive}
	if err := menu.SetAddOns([]models.AddOn{{Name: "Cheese", Price: 1.5}}); err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	db.Create(&menu)

	return db
}

const testCartKey = "integration-cart"

func request(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Key", testCartKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func loginAdmin(t *testing.T, r *gin.Engine) string {
	w := request(t, r, "POST", "/login", "", gin.H{
		"email": "admin@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["data"].(map[string]interface{})["token"].(string)
}

func scanTable(t *testing.T, r *gin.Engine, tableNo string) {
	w := request(t, r, "POST", "/tables/"+tableNo+"/scan", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func browseMenus(t *testing.T, r *gin.Engine) uint {
	w := request(t, r, "GET", "/menus", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	menus := decode(t, w)["data"].([]interface{})
	assert.Len(t, menus, 1)
	id := menus[0].(map[string]interface{})["id"].(float64)
	return uint(id)
}

func addToCart(t *testing.T, r *gin.Engine, menuID uint, addOns []string) {
	w := request(t, r, "POST", "/cart/items", "", gin.H{
		"menu_id": menuID,
		"add_ons": addOns,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func checkout(t *testing.T, r *gin.Engine) uint {
	w := request(t, r, "POST", "/cart/checkout", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "Order submitted for table T5", resp["message"])
	order := resp["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 21.5, order["total_amount"])

	// the cart is gone after a confirmed submit
	w = request(t, r, "GET", "/cart", "", nil)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["lines"], 0)

	return uint(order["id"].(float64))
}

func updateStatus(t *testing.T, r *gin.Engine, token string, orderID uint, status string, wantCode int) {
	url := fmt.Sprintf("/admin/orders/%d/status", orderID)
	w := request(t, r, "PATCH", url, token, gin.H{"status": status})
	assert.Equal(t, wantCode, w.Code)
}

func boardSize(t *testing.T, r *gin.Engine, token string) int {
	w := request(t, r, "GET", "/admin/orders/board", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	board, _ := decode(t, w)["data"].([]interface{})
	return len(board)
}

func checkSalesReport(t *testing.T, r *gin.Engine, token string) {
	today := time.Now().Format("2006-01-02")
	url := "/admin/reports/sales?start_date=" + today + "&end_date=" + today
	w := request(t, r, "GET", url, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	summary := decode(t, w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, 1.0, summary["count"])
	assert.Equal(t, 21.5, summary["sales_total"])
	assert.Equal(t, "21.50", summary["avg_ticket"])

	ranking := summary["ranking"].([]interface{})
	assert.Len(t, ranking, 1)
	top := ranking[0].(map[string]interface{})
	assert.Equal(t, "Burger", top["name"])
	assert.Equal(t, 2.0, top["units_sold"])
}

func checkLedgerExport(t *testing.T, r *gin.Engine, token string) {
	today := time.Now().Format("2006-01-02")
	url := "/admin/reports/sales/export?start_date=" + today + "&end_date=" + today
	w := request(t, r, "GET", url, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"),
		"sales_"+today+"_"+today+".csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\r\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "id,datetime,tableNo,totalAmount,items", lines[0])
	assert.Contains(t, lines[1], "T5")
	assert.Contains(t, lines[1], "Burger(+Cheese)|Burger")
}
