package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Config
const (
	BaseURL      = "http://localhost:8080"
	TotalClients = 500 // 并发提交同一订单的客户端数
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

// 压测目标：同一订单并发提交库存扣减
// 预期只有一个请求真正扣减，其余全部拿到 already_committed
func main() {
	token := envOrPrompt("压测用 JWT token: ")
	orderID := envOrPrompt("压测用订单 ID: ")

	fmt.Printf("开始压测：%d 个并发客户端提交同一订单库存 (OrderID: %s)...\n", TotalClients, orderID)
	time.Sleep(1 * time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	committed := 0
	alreadyCommitted := 0
	failed := 0

	start := time.Now()

	for i := 0; i < TotalClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := commitStock(token, orderID)
			mu.Lock()
			switch outcome {
			case "committed", "partial", "insufficient_stock":
				committed++
			case "already_committed":
				alreadyCommitted++
			default:
				failed++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	duration := time.Since(start)
	qps := float64(TotalClients) / duration.Seconds()

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("总请求数: %d\n", TotalClients)
	fmt.Printf("QPS: %.2f\n", qps)
	fmt.Printf("真正扣减: %d (预期: 1)\n", committed)
	fmt.Printf("幂等短路: %d\n", alreadyCommitted)
	fmt.Printf("请求失败: %d\n", failed)
	fmt.Println("--------------------------------------------------")
}

func commitStock(token, orderID string) string {
	url := fmt.Sprintf("%s/orders/update-stock", BaseURL)
	payload := map[string]string{"orderId": orderID}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "error"
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "error"
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result struct {
		Data struct {
			Outcome string `json:"outcome"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "error"
	}
	return result.Data.Outcome
}

func envOrPrompt(prompt string) string {
	fmt.Print(prompt)
	var value string
	fmt.Scanln(&value)
	return value
}
