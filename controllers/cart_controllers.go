package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/services"
	"github.com/tableside/restaurant-order/utils"
)

// ErrNoPermission is returned on role checks across staff endpoints.
var ErrNoPermission = errors.New("you don't have permission for this action")

type CartController struct {
	DB     *gorm.DB
	Carts  *cart.Store
	Orders *services.OrderService
}

func NewCartController(db *gorm.DB, carts *cart.Store, orders *services.OrderService) *CartController {
	return &CartController{DB: db, Carts: carts, Orders: orders}
}

// cartKey reads the client's cart key, minting a fresh one on first
// touch. The key identifies one device's cart; responses echo it so the
// client can keep it across reloads.
func cartKey(c *gin.Context) string {
	if key := c.GetHeader("X-Cart-Key"); key != "" {
		return key
	}
	if key := c.Query("cart_key"); key != "" {
		return key
	}
	return uuid.NewString()
}

type cartView struct {
	CartKey string      `json:"cart_key"`
	Lines   []cart.Line `json:"lines"`
	Total   float64     `json:"total"`
	TableNo string      `json:"table_no,omitempty"`
}

func (cc *CartController) view(key string) (cartView, error) {
	current, err := cc.Carts.Get(key)
	if err != nil {
		return cartView{}, err
	}
	lines := current.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		CartKey: key,
		Lines:   lines,
		Total:   current.Total(),
		TableNo: cc.Carts.TableNo(key),
	}, nil
}

// GetCart -> current cart contents and total
func (cc *CartController) GetCart(c *gin.Context) {
	key := cartKey(c)
	v, err := cc.view(key)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart contents", v)
}

// AddItem -> add one menu item with an optional add-on selection.
// Selected add-ons are matched by name against the item's own set.
func (cc *CartController) AddItem(c *gin.Context) {
	key := cartKey(c)

	type reqBody struct {
		MenuID uint     `json:"menu_id" binding:"required"`
		AddOns []string `json:"add_ons"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := cc.DB.First(&menu, body.MenuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if menu.Status == models.MenuStatusSoldout {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu item is sold out"))
		return
	}
	if menu.Status == models.MenuStatusHidden {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	// Resolve names against the item's add-on set; unknown names fail
	// before anything is persisted.
	offered := menu.GetAddOns()
	var selected []models.AddOn
	for _, name := range body.AddOns {
		found := false
		for _, a := range offered {
			if a.Name == name {
				selected = append(selected, a)
				found = true
				break
			}
		}
		if !found {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("add-on %q is not offered by %s", name, menu.Name))
			return
		}
	}

	if err := cc.Carts.AddLine(key, menu, selected); err != nil {
		if errors.Is(err, cart.ErrStoreUnavailable) {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	v, err := cc.view(key)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Added to cart", v)
}

// RemoveItem -> remove a line by position. Out-of-range is a no-op.
func (cc *CartController) RemoveItem(c *gin.Context) {
	key := cartKey(c)

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid line index"))
		return
	}

	if err := cc.Carts.RemoveLine(key, idx); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	v, err := cc.view(key)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Line removed", v)
}

// SetTable -> store the table context (from a scanned table QR).
func (cc *CartController) SetTable(c *gin.Context) {
	key := cartKey(c)
	tableNo := c.Param("table_no")
	if tableNo == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table number is required"))
		return
	}

	if err := cc.Carts.SetTableNo(key, tableNo); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table stored", gin.H{
		"cart_key": key,
		"table_no": tableNo,
	})
}

// Checkout -> submit the cart as an order. The cart is cleared only on a
// confirmed write; any failure leaves it intact for a retry.
func (cc *CartController) Checkout(c *gin.Context) {
	key := cartKey(c)

	type reqBody struct {
		TableNo string `json:"table_no"`
	}
	var body reqBody
	// body is optional; table may come from the stored context
	_ = c.ShouldBindJSON(&body)

	order, err := cc.Orders.Submit(key, body.TableNo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrStoreUnavailable), errors.Is(err, cart.ErrStoreUnavailable):
			utils.RespondError(c, http.StatusServiceUnavailable, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusCreated,
		fmt.Sprintf("Order submitted for table %s", order.TableNo), gin.H{
			"cart_key": key,
			"order":    order,
		})
}
