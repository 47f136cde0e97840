package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	orderService "gocart/internal/domain/order/service"
	"gocart/internal/domain/payment/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"

	"github.com/gin-gonic/gin"
)

// 网关签名请求头
const signatureHeader = "X-Razorpay-Signature"

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type CreateSessionInput struct {
	StoreID       string                  `json:"storeId" binding:"required"`
	AddressID     string                  `json:"addressId" binding:"required"`
	Total         float64                 `json:"total" binding:"required"`
	Items         []orderService.CartLine `json:"items" binding:"required"`
	Coupon        map[string]interface{}  `json:"coupon"`
	PaymentMethod string                  `json:"paymentMethod"`
}

// CreateSession 创建支付会话 (网关订单 + 本地订单)
// @Summary 创建支付会话
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body CreateSessionInput true "Checkout"
// @Success 200 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) CreateSession(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	var coupon []byte
	if input.Coupon != nil {
		coupon, _ = json.Marshal(input.Coupon)
	}

	session, err := h.service.CreateSession(orderService.CreateOrderInput{
		UserID:        userID,
		StoreID:       input.StoreID,
		AddressID:     input.AddressID,
		Total:         input.Total,
		Items:         input.Items,
		Coupon:        coupon,
		PaymentMethod: input.PaymentMethod,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, session)
}

type ConfirmPaymentInput struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
	PaymentID      string `json:"paymentId" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
	PaymentMethod  string `json:"paymentMethod"`
}

// ConfirmPayment 直连通道确认支付
// @Summary 直连通道确认支付
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body ConfirmPaymentInput true "Payment confirmation"
// @Success 200 {object} response.Response
// @Router /payments [put]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.ConfirmPayment(userID, input.GatewayOrderID, input.PaymentID, input.Signature, input.PaymentMethod)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, order)
}

// HandleWebhook 网关异步回调
// 必须在任何 JSON 绑定之前取原始请求体，签名是对原始字节算的
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "cannot read body")
		return
	}

	signature := c.GetHeader(signatureHeader)

	if err := h.service.HandleWebhook(body, signature); err != nil {
		if errors.Is(err, service.ErrSignatureMismatch) {
			response.Error(c, http.StatusUnauthorized, response.ErrSignatureMismatch, "invalid signature")
			return
		}
		// 处理失败返回 5xx，网关会按退避策略重试
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, nil)
}

func (h *PaymentHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSignatureMismatch):
		response.Error(c, http.StatusUnauthorized, response.ErrSignatureMismatch, "invalid signature")
	case errors.Is(err, service.ErrGatewayUnavailable):
		response.Error(c, http.StatusBadGateway, response.ErrGatewayUnavailable, "payment gateway unavailable")
	case errors.Is(err, orderService.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
	case errors.Is(err, orderService.ErrNotOrderOwner):
		response.Error(c, http.StatusForbidden, response.ErrOrderNotOwned, "no access to this order")
	case errors.Is(err, orderService.ErrStateConflict):
		response.Conflict(c, response.ErrOrderStateConflict, "payment state does not allow this operation")
	case errors.Is(err, orderService.ErrTotalMismatch), errors.Is(err, orderService.ErrEmptyOrder):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
