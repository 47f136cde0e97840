package handler

import (
	"errors"
	"net/http"

	"gocart/internal/domain/order/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// GetOrders 获取当前用户订单列表
// @Summary 获取当前用户订单列表
// @Tags Order
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Response
// @Router /orders [get]
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, limit := utils.GetPagination(c)

	orders, total, err := h.service.ListUserOrders(userID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"orders": orders,
		"total":  total,
	})
}

// GetOrder 获取单个订单 (仅本人)
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	order, err := h.service.GetOwnedOrder(userID, orderID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

type CancelOrderInput struct {
	OrderID     string `json:"orderId" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
}

// CancelOrder 买家取消订单
// @Summary 买家取消订单
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CancelOrderInput true "Cancellation"
// @Success 200 {object} response.Response
// @Router /orders/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input CancelOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CancelByBuyer(userID, input.OrderID, input.Reason, input.Description)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

type CommitStockInput struct {
	OrderID string `json:"orderId" binding:"required"`
}

// CommitStock 提交订单库存扣减 (支付成功后调用，幂等)
// @Summary 提交订单库存扣减
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CommitStockInput true "Order"
// @Success 200 {object} response.Response
// @Router /orders/update-stock [post]
func (h *OrderHandler) CommitStock(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input CommitStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	outcome, err := h.service.CommitStock(userID, input.OrderID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, outcome)
}

// GetStoreOrders 卖家查看本店订单
func (h *OrderHandler) GetStoreOrders(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)
	page, limit := utils.GetPagination(c)

	orders, total, err := h.service.ListStoreOrders(caps.StoreID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"orders": orders,
		"total":  total,
	})
}

type UpdateStatusInput struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// UpdateStatus 卖家推进订单履约状态
// @Summary 卖家推进订单履约状态
// @Tags Order
// @Accept json
// @Produce json
// @Param input body UpdateStatusInput true "Target status"
// @Success 200 {object} response.Response
// @Router /store/orders/status [post]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.AdvanceStatus(caps.StoreID, input.OrderID, input.Status)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelStoreOrder 卖家取消订单
func (h *OrderHandler) CancelStoreOrder(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)

	var input CancelOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CancelBySeller(caps.StoreID, input.OrderID, input.Reason, input.Description)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

func (h *OrderHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
	case errors.Is(err, service.ErrNotOrderOwner), errors.Is(err, service.ErrNotStoreOrder):
		response.Error(c, http.StatusForbidden, response.ErrOrderNotOwned, "no access to this order")
	case errors.Is(err, service.ErrStateConflict):
		response.Conflict(c, response.ErrOrderStateConflict, "order state does not allow this operation")
	case errors.Is(err, service.ErrOrderNotPaid):
		response.Conflict(c, response.ErrOrderStateConflict, "order is not paid")
	case errors.Is(err, service.ErrInvalidReason):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidCancelReason, "invalid cancellation reason")
	case errors.Is(err, service.ErrDescriptionTooLong):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "description exceeds 500 characters")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
