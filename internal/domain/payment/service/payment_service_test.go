package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	orderModel "gocart/internal/domain/order/model"
	orderService "gocart/internal/domain/order/service"
	"gocart/internal/domain/payment/gateway"
	"gocart/internal/pkg/config"
	"gocart/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	config.GlobalConfig.Gateway.KeySecret = testKeySecret
	config.GlobalConfig.Gateway.WebhookSecret = testWebhookSecret
	m.Run()
}

// MockOrderService is a mock of the order reconciliation entry points
type MockOrderService struct {
	mock.Mock
	orderService.OrderService
}

func (m *MockOrderService) GetByGatewayOrderID(gatewayOrderID string) (*orderModel.Order, error) {
	args := m.Called(gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderService) MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method string) (*orderModel.Order, error) {
	args := m.Called(gatewayOrderID, paymentID, signature, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderService) MarkPaymentFailed(gatewayOrderID string) error {
	args := m.Called(gatewayOrderID)
	return args.Error(0)
}

func (m *MockOrderService) MarkRefunded(gatewayPaymentID string) error {
	args := m.Called(gatewayPaymentID)
	return args.Error(0)
}

func signWith(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func testOrder(userID, gatewayOrderID string) *orderModel.Order {
	o := &orderModel.Order{
		UserID:         userID,
		GatewayOrderID: gatewayOrderID,
		PaymentStatus:  orderModel.PaymentStatusSuccess,
		IsPaid:         true,
	}
	o.ID = "order-1"
	return o
}

func TestConfirmPayment(t *testing.T) {
	t.Run("Valid signature marks payment success", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		order := testOrder("u1", "gw_1")
		sig := gateway.SignPayment("gw_1", "pay_1", testKeySecret)

		mockOrders.On("GetByGatewayOrderID", "gw_1").Return(order, nil)
		mockOrders.On("MarkPaymentSuccess", "gw_1", "pay_1", sig, "card").Return(order, nil)

		result, err := service.ConfirmPayment("u1", "gw_1", "pay_1", sig, "card")

		assert.NoError(t, err)
		assert.True(t, result.IsPaid)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Forged signature marks payment failed", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		mockOrders.On("MarkPaymentFailed", "gw_1").Return(nil)

		_, err := service.ConfirmPayment("u1", "gw_1", "pay_1", "deadbeef", "")

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		// 签名不过不允许标记成功
		mockOrders.AssertNotCalled(t, "MarkPaymentSuccess",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Other user's order rejected", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		order := testOrder("u1", "gw_1")
		sig := gateway.SignPayment("gw_1", "pay_1", testKeySecret)

		mockOrders.On("GetByGatewayOrderID", "gw_1").Return(order, nil)

		_, err := service.ConfirmPayment("intruder", "gw_1", "pay_1", sig, "")

		assert.ErrorIs(t, err, orderService.ErrNotOrderOwner)
	})
}

func TestHandleWebhook(t *testing.T) {
	t.Run("Captured event marks payment success", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"gw_1","method":"upi"}}}}`)
		sig := signWith(testWebhookSecret, body)

		mockOrders.On("MarkPaymentSuccess", "gw_1", "pay_1", sig, "upi").Return(testOrder("u1", "gw_1"), nil)

		err := service.HandleWebhook(body, sig)

		assert.NoError(t, err)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Failed event marks payment failed", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"gw_1"}}}}`)
		sig := signWith(testWebhookSecret, body)

		mockOrders.On("MarkPaymentFailed", "gw_1").Return(nil)

		err := service.HandleWebhook(body, sig)

		assert.NoError(t, err)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Refund event marks order refunded", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"refund.created","payload":{"refund":{"entity":{"id":"rfnd_1","payment_id":"pay_1"}}}}`)
		sig := signWith(testWebhookSecret, body)

		mockOrders.On("MarkRefunded", "pay_1").Return(nil)

		err := service.HandleWebhook(body, sig)

		assert.NoError(t, err)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Invalid signature rejected", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"payment.captured"}`)

		err := service.HandleWebhook(body, "deadbeef")

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		mockOrders.AssertNotCalled(t, "MarkPaymentSuccess",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Signature from key secret rejected for webhook", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"payment.captured"}`)
		sig := signWith(testKeySecret, body)

		err := service.HandleWebhook(body, sig)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("Unknown event acknowledged without side effects", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"invoice.paid","payload":{}}`)
		sig := signWith(testWebhookSecret, body)

		err := service.HandleWebhook(body, sig)

		assert.NoError(t, err)
		mockOrders.AssertNotCalled(t, "MarkPaymentSuccess",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Already-successful order event is idempotent", func(t *testing.T) {
		mockOrders := new(MockOrderService)
		service := NewPaymentService(mockOrders, nil)

		body := []byte(`{"event":"payment.authorized","payload":{"payment":{"entity":{"id":"pay_1","order_id":"gw_1"}}}}`)
		sig := signWith(testWebhookSecret, body)

		// 网关重放同一事件，对账入口本身是 no-op
		mockOrders.On("MarkPaymentSuccess", "gw_1", "pay_1", sig, "").Return(testOrder("u1", "gw_1"), nil)

		err := service.HandleWebhook(body, sig)
		assert.NoError(t, err)
	})
}
