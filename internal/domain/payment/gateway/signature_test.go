package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyPaymentSignature(t *testing.T) {
	secret := "test_key_secret"

	t.Run("Valid signature accepted", func(t *testing.T) {
		sig := SignPayment("order_123", "pay_456", secret)
		assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	})

	t.Run("Signature covers orderID and paymentID joined by pipe", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte("order_123|pay_456"))
		expected := hex.EncodeToString(mac.Sum(nil))

		assert.Equal(t, expected, SignPayment("order_123", "pay_456", secret))
	})

	t.Run("Tampered payment ID rejected", func(t *testing.T) {
		sig := SignPayment("order_123", "pay_456", secret)
		assert.False(t, VerifyPaymentSignature("order_123", "pay_999", sig, secret))
	})

	t.Run("Wrong secret rejected", func(t *testing.T) {
		sig := SignPayment("order_123", "pay_456", "other_secret")
		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	})

	t.Run("Empty signature rejected", func(t *testing.T) {
		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "", secret))
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	t.Run("Valid signature accepted", func(t *testing.T) {
		sig := signHex(body, secret)
		assert.True(t, VerifyWebhookSignature(body, sig, secret))
	})

	t.Run("Modified body rejected", func(t *testing.T) {
		sig := signHex(body, secret)
		tampered := []byte(`{"event":"payment.captured","payload":{"extra":1}}`)
		assert.False(t, VerifyWebhookSignature(tampered, sig, secret))
	})

	t.Run("Key secret cannot verify webhook payloads", func(t *testing.T) {
		// 两条通道的密钥相互独立
		sig := signHex(body, "test_key_secret")
		assert.False(t, VerifyWebhookSignature(body, sig, secret))
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), MinorUnits(100))
	assert.Equal(t, int64(9999), MinorUnits(99.99))
	// 浮点表示误差必须被四舍五入吸收
	assert.Equal(t, int64(4520), MinorUnits(45.20))
	assert.Equal(t, int64(10), MinorUnits(0.1))
}
