package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/quickserve/middlewares"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/services"
	"github.com/yeremiapane/quickserve/utils"
)

type OrderController struct {
	Lifecycle *services.OrderLifecycle
	Tracking  *services.OrderTracking
}

func NewOrderController(lifecycle *services.OrderLifecycle, tracking *services.OrderTracking) *OrderController {
	return &OrderController{Lifecycle: lifecycle, Tracking: tracking}
}

// CreateOrder -> customer submits the cart of a table (status='placed')
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body createOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.CreateOrder(c.Request.Context(), body.table(), body.cartLines())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrderByID -> tracking of one order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Tracking.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrdersByTable -> GET /orders?table_number=A1&limit=5
func (oc *OrderController) GetOrdersByTable(c *gin.Context) {
	table := c.Query("table_number")
	if table == "" {
		table = c.Query("tableNumber")
	}
	if strings.TrimSpace(table) == "" {
		utils.RespondServiceError(c, models.NewValidationError("table_number", "query parameter is required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondServiceError(c, models.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = n
	}

	orders, err := oc.Tracking.ListForTable(c.Request.Context(), table, limit)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// GetLatestForTable -> "my last order"; no order yet is not an error
func (oc *OrderController) GetLatestForTable(c *gin.Context) {
	order, found, err := oc.Tracking.GetLatestForTable(c.Request.Context(), c.Param("table_number"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if !found {
		utils.RespondJSON(c, http.StatusOK, "No order yet", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Latest order", order)
}

// GetOrderBoard -> staff view of orders still in progress, oldest first
func (oc *OrderController) GetOrderBoard(c *gin.Context) {
	var statuses []models.OrderStatus
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			st, err := models.ParseOrderStatus(part)
			if err != nil {
				utils.RespondServiceError(c, err)
				return
			}
			statuses = append(statuses, st)
		}
	}

	orders, err := oc.Tracking.ActiveOrders(c.Request.Context(), statuses)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order board", orders)
}

// UpdateOrderStatus -> staff moves an order to its next status
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	order, err := oc.Lifecycle.Advance(c.Request.Context(), c.Param("order_id"), target, middlewares.Actor(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetOrderHistory -> status changes of one order
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	history, err := oc.Tracking.History(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}
