package service

import (
	"encoding/json"
	"errors"

	orderModel "gocart/internal/domain/order/model"
	orderService "gocart/internal/domain/order/service"
	"gocart/internal/domain/payment/gateway"
	"gocart/internal/pkg/config"
	"gocart/pkg/logger"
	"gocart/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrSignatureMismatch  = errors.New("payment signature mismatch")
	ErrGatewayUnavailable = gateway.ErrGatewayUnavailable
)

// 网关回调事件类型
const (
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventRefundCreated     = "refund.created"
)

// CheckoutSession 支付会话：本地订单 + 前端唤起网关所需信息
type CheckoutSession struct {
	Order       *orderModel.Order `json:"order"`
	GatewayID   string            `json:"gatewayOrderId"`
	AmountMinor int64             `json:"amount"`
	Currency    string            `json:"currency"`
	KeyID       string            `json:"keyId"`
}

type PaymentService interface {
	CreateSession(input orderService.CreateOrderInput) (*CheckoutSession, error)
	ConfirmPayment(userID, gatewayOrderID, paymentID, signature, method string) (*orderModel.Order, error)
	HandleWebhook(body []byte, signature string) error
}

type paymentService struct {
	orders  orderService.OrderService
	gateway *gateway.Client
}

func NewPaymentService(orders orderService.OrderService, gw *gateway.Client) PaymentService {
	return &paymentService{orders: orders, gateway: gw}
}

// CreateSession 先建网关订单再落本地单
// 顺序不可调换：本地单挂着 gatewayOrderID，网关失败时不留半截订单
func (s *paymentService) CreateSession(input orderService.CreateOrderInput) (*CheckoutSession, error) {
	gwOrder, err := s.gateway.CreateOrder(input.Total, map[string]string{
		"userId": input.UserID,
	})
	if err != nil {
		return nil, err
	}

	input.GatewayOrderID = gwOrder.ID
	order, err := s.orders.CreateOrder(input)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		Order:       order,
		GatewayID:   gwOrder.ID,
		AmountMinor: gwOrder.Amount,
		Currency:    gwOrder.Currency,
		KeyID:       config.GlobalConfig.Gateway.KeyID,
	}, nil
}

// ConfirmPayment 直连通道对账：校验客户端回传的签名后标记支付成功
// 签名不匹配时把 PENDING 订单标记为 FAILED (单调守卫保证不会降级已成功的订单)
func (s *paymentService) ConfirmPayment(userID, gatewayOrderID, paymentID, signature, method string) (*orderModel.Order, error) {
	secret := config.GlobalConfig.Gateway.KeySecret
	if !gateway.VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret) {
		logger.Log.Warn("payment signature mismatch",
			zap.String("gatewayOrderId", gatewayOrderID),
			zap.String("paymentId", paymentID))
		if err := s.orders.MarkPaymentFailed(gatewayOrderID); err != nil &&
			!errors.Is(err, orderService.ErrOrderNotFound) {
			logger.Log.Error("failed to mark payment failed", zap.Error(err))
		}
		return nil, ErrSignatureMismatch
	}

	order, err := s.orders.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, orderService.ErrNotOrderOwner
	}

	if method == "" {
		method = "gateway"
	}
	return s.orders.MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method)
}

// webhookEvent 网关回调载荷 (只取需要的字段)
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Method  string `json:"method"`
			} `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity struct {
				ID        string `json:"id"`
				PaymentID string `json:"payment_id"`
			} `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// HandleWebhook 异步通道对账
// 签名覆盖原始请求体；事件处理是幂等的，网关重试同一事件不产生副作用
func (s *paymentService) HandleWebhook(body []byte, signature string) error {
	secret := config.GlobalConfig.Gateway.WebhookSecret
	if !gateway.VerifyWebhookSignature(body, signature, secret) {
		logger.Log.Warn("webhook signature mismatch")
		return ErrSignatureMismatch
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}

	metrics.Default.RecordWebhookEvent(event.Event)

	switch event.Event {
	case EventPaymentAuthorized, EventPaymentCaptured:
		payment := event.Payload.Payment.Entity
		_, err := s.orders.MarkPaymentSuccess(payment.OrderID, payment.ID, signature, payment.Method)
		if errors.Is(err, orderService.ErrOrderNotFound) {
			// 网关可能先于本地落单推事件；直接确认，补单走主动确认接口
			logger.Log.Warn("webhook for unknown order", zap.String("gatewayOrderId", payment.OrderID))
			return nil
		}
		if errors.Is(err, orderService.ErrStateConflict) {
			// 已退款订单又收到迟到的 captured 事件，确认掉即可
			return nil
		}
		return err

	case EventPaymentFailed:
		payment := event.Payload.Payment.Entity
		err := s.orders.MarkPaymentFailed(payment.OrderID)
		if errors.Is(err, orderService.ErrOrderNotFound) {
			return nil
		}
		return err

	case EventRefundCreated:
		refund := event.Payload.Refund.Entity
		return s.orders.MarkRefunded(refund.PaymentID)

	default:
		// 未订阅的事件直接确认，避免网关无谓重试
		logger.Log.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}
}
