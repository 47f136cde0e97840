package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayment 对 "<网关订单ID>|<支付ID>" 做 HMAC-SHA256，hex 编码
func SignPayment(gatewayOrderID, paymentID, secret string) string {
	return signHex([]byte(gatewayOrderID+"|"+paymentID), secret)
}

// VerifyPaymentSignature 校验直连回传签名，恒定时间比较
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	expected := SignPayment(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature 校验 webhook 签名：HMAC 覆盖原始请求体
// 必须用反序列化前的原始字节，任何重排/美化都会使签名失效
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := signHex(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
