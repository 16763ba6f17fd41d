package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/orderflow"
	"github.com/tableside/restaurant-order/realtime"
	"github.com/tableside/restaurant-order/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Policy orderflow.Policy
}

func NewOrderController(db *gorm.DB, policy orderflow.Policy) *OrderController {
	return &OrderController{DB: db, Policy: policy}
}

// GetAllOrders -> every order with its frozen lines, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetBoard -> the operational board: everything not yet paid, newest
// first. Moving to paid is exactly what removes an order from here.
func (oc *OrderController) GetBoard(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items").
		Where("status != ?", models.OrderStatusPaid).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order board", orders)
}

// GetOrderByID -> detail of one order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateStatus -> move an order through the lifecycle. A single-column
// update: items, total_amount and table_no are never touched. The
// configured policy decides which transitions are permitted.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.IsValidOrderStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("invalid status %q", body.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := oc.Policy.Allow(order.Status, body.Status); err != nil {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	if err := oc.DB.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", body.Status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	order.Status = body.Status

	realtime.BroadcastStatusUpdate(order)
	realtime.BroadcastStaffNotification(
		fmt.Sprintf("Order #%d is now %s", order.ID, order.Status))
	oc.publishSnapshot()

	utils.RespondJSON(c, http.StatusOK, "Status updated", order)
}

func (oc *OrderController) publishSnapshot() {
	var orders []models.Order
	if err := oc.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading orders snapshot: %v", err)
		return
	}
	realtime.PublishOrders(orders)
}
