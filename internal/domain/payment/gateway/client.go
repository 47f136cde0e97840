package gateway

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gocart/internal/pkg/config"
	"gocart/pkg/logger"
	"gocart/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// GatewayOrder 网关侧订单
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client 支付网关客户端
// 出站调用包一层熔断器，网关抖动时快速失败而不是拖垮下单链路
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient() *Client {
	cfg := config.GlobalConfig.Gateway

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.Default.SetCircuitBreakerState(name, state)
			logger.Log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{http: httpClient, breaker: breaker}
}

// CreateOrder 在网关创建支付单
// amount 为主货币单位 (如卢比/元)，网关侧一律最小货币单位
func (c *Client) CreateOrder(amount float64, notes map[string]string) (*GatewayOrder, error) {
	body := map[string]interface{}{
		"amount":   MinorUnits(amount),
		"currency": config.GlobalConfig.Gateway.Currency,
		"receipt":  uuid.NewString(),
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var order GatewayOrder
		resp, err := c.http.R().
			SetBody(body).
			SetResult(&order).
			Post("/orders")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode(), resp.String())
		}
		return &order, nil
	})
	if err != nil {
		metrics.Default.RecordGatewayRequest("create_order", "error")
		logger.Log.Error("gateway order creation failed", zap.Error(err))
		return nil, ErrGatewayUnavailable
	}

	metrics.Default.RecordGatewayRequest("create_order", "ok")
	return result.(*GatewayOrder), nil
}

// MinorUnits 主货币单位转最小货币单位 (四舍五入消除浮点误差)
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
