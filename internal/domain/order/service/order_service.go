package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gocart/internal/domain/order/model"
	"gocart/internal/domain/order/repository"
	productRepo "gocart/internal/domain/product/repository"
	"gocart/internal/pkg/config"
	"gocart/internal/pkg/worker"
	"gocart/pkg/metrics"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotOrderOwner      = errors.New("order does not belong to user")
	ErrNotStoreOrder      = errors.New("order does not belong to store")
	ErrStateConflict      = errors.New("invalid order state transition")
	ErrInvalidReason      = errors.New("invalid cancellation reason")
	ErrDescriptionTooLong = errors.New("cancellation description too long")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrTotalMismatch      = errors.New("order total does not match item prices")
	ErrOrderNotPaid       = errors.New("order is not paid")
)

const maxCancelDescriptionLen = 500

// CartLine 下单时提交的购物车行
type CartLine struct {
	ProductID    string  `json:"productId"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	SelectedSize string  `json:"selectedSize"`
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID         string
	StoreID        string
	AddressID      string
	Total          float64
	Items          []CartLine
	Coupon         json.RawMessage
	GatewayOrderID string
	PaymentMethod  string
}

// OrderService 订单服务接口
type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	GetOrder(orderID string) (*model.Order, error)
	GetOwnedOrder(userID, orderID string) (*model.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*model.Order, error)
	ListUserOrders(userID string, page, limit int) ([]model.Order, int64, error)
	ListStoreOrders(storeID string, page, limit int) ([]model.Order, int64, error)
	CountUserOrders(userID string) (int64, error)

	AdvanceStatus(storeID, orderID, target string) (*model.Order, error)
	CommitStock(userID, orderID string) (*model.StockCommitOutcome, error)
	CancelByBuyer(userID, orderID, reason, description string) (*model.Order, error)
	CancelBySeller(storeID, orderID, reason, description string) (*model.Order, error)

	// 支付对账入口，由 payment 模块调用
	MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method string) (*model.Order, error)
	MarkPaymentFailed(gatewayOrderID string) error
	MarkRefunded(gatewayPaymentID string) error
}

type orderService struct {
	repo       repository.OrderRepository
	products   productRepo.ProductRepository
	workerPool *worker.WorkerPool
}

func NewOrderService(repo repository.OrderRepository, products productRepo.ProductRepository, pool *worker.WorkerPool) OrderService {
	return &orderService{
		repo:       repo,
		products:   products,
		workerPool: pool,
	}
}

// CreateOrder 创建订单聚合：订单 + 订单项同一事务落库
// total 必须等于各订单项 price×quantity 之和 (价格快照，之后不随目录价变化)
func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	sum := 0.0
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		if line.Quantity <= 0 || line.Price < 0 {
			return nil, ErrEmptyOrder
		}
		sum += line.Price * float64(line.Quantity)
		items = append(items, model.OrderItem{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			Price:        line.Price,
			SelectedSize: line.SelectedSize,
		})
	}

	// 浮点金额比较留一分钱容差
	if math.Abs(sum-input.Total) > 0.01 {
		return nil, ErrTotalMismatch
	}

	coupon := input.Coupon
	if len(coupon) == 0 {
		coupon = json.RawMessage("{}")
	}

	order := &model.Order{
		UserID:         input.UserID,
		StoreID:        input.StoreID,
		AddressID:      input.AddressID,
		Total:          input.Total,
		Status:         model.StatusOrderPlaced,
		PaymentStatus:  model.PaymentStatusPending,
		PaymentMethod:  input.PaymentMethod,
		GatewayOrderID: input.GatewayOrderID,
		Coupon:         coupon,
		IsCouponUsed:   string(coupon) != "{}",
		OrderItems:     items,
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	metrics.Default.RecordOrderCreated()
	return order, nil
}

func (s *orderService) GetOrder(orderID string) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetOwnedOrder(userID, orderID string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *orderService) GetByGatewayOrderID(gatewayOrderID string) (*model.Order, error) {
	order, err := s.repo.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListUserOrders(userID string, page, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetListByUser(userID, (page-1)*limit, limit)
}

func (s *orderService) ListStoreOrders(storeID string, page, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetListByStore(storeID, (page-1)*limit, limit)
}

func (s *orderService) CountUserOrders(userID string) (int64, error) {
	return s.repo.CountByUser(userID)
}

// AdvanceStatus 卖家推进履约状态，只允许前进，CANCELLED 不可达也不可离开
func (s *orderService) AdvanceStatus(storeID, orderID, target string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, ErrNotStoreOrder
	}

	if !model.CanAdvanceTo(order.Status, target) {
		return nil, ErrStateConflict
	}

	rows, err := s.repo.AdvanceStatus(orderID, order.Status, target)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 并发下状态已被别人改掉
		return nil, ErrStateConflict
	}

	s.notify(order.UserID, orderID, "Order update",
		fmt.Sprintf("Your order is now %s", target))

	return s.GetOrder(orderID)
}

// CommitStock 库存提交：把已支付订单的订单项转化为账本扣减
// 幂等：stock_committed 标记保证重复调用是 no-op；
// 每行独立给出结果，库存不足的行不再静默跳过
func (s *orderService) CommitStock(userID, orderID string) (*model.StockCommitOutcome, error) {
	order, err := s.GetOwnedOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsPaid || order.IsCancelled {
		return nil, ErrOrderNotPaid
	}

	// 事务外解析每个订单项走哪本账 (尺码 or 扁平)
	type commitPlan struct {
		item    model.OrderItem
		useSize bool
	}
	plans := make([]commitPlan, 0, len(order.OrderItems))
	productIDs := make(map[string]bool)
	for _, item := range order.OrderItems {
		product, err := s.products.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, commitPlan{
			item:    item,
			useSize: product.IsClothing && item.SelectedSize != "",
		})
		productIDs[item.ProductID] = true
	}

	outcome := &model.StockCommitOutcome{OrderID: orderID}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		// 幂等守卫：第二次调用在这里短路；
		// 守卫同时要求已支付未取消，事务前读取后发生的取消在此被拦下
		acquired, err := s.repo.MarkStockCommitted(tx, orderID)
		if err != nil {
			return err
		}
		if !acquired {
			current, err := s.repo.GetByID(orderID)
			if err != nil {
				return err
			}
			if current.StockCommitted {
				outcome.Outcome = model.CommitOutcomeAlreadyCommitted
				return nil
			}
			// 未提交却守卫失败：订单在读取后被取消 (或支付被回退)
			return ErrStateConflict
		}

		committed, skipped := 0, 0
		for _, plan := range plans {
			var ok bool
			var err error
			if plan.useSize {
				ok, err = s.products.DecrementSizeStock(tx, plan.item.ProductID, plan.item.SelectedSize, plan.item.Quantity)
			} else {
				ok, err = s.products.DecrementFlatStock(tx, plan.item.ProductID, plan.item.Quantity)
			}
			if err != nil {
				return err
			}

			result := model.LineCommitted
			if ok {
				committed++
			} else {
				skipped++
				result = model.LineInsufficientStock
			}
			outcome.Lines = append(outcome.Lines, model.LineCommitResult{
				ProductID:    plan.item.ProductID,
				SelectedSize: plan.item.SelectedSize,
				Quantity:     plan.item.Quantity,
				Result:       result,
			})
		}

		// 重算受影响商品的聚合 inStock
		for productID := range productIDs {
			if err := s.products.RecomputeInStock(tx, productID); err != nil {
				return err
			}
		}

		switch {
		case skipped == 0:
			outcome.Outcome = model.CommitOutcomeCommitted
		case committed == 0:
			outcome.Outcome = model.CommitOutcomeInsufficient
		default:
			outcome.Outcome = model.CommitOutcomePartial
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Default.RecordStockCommit(outcome.Outcome)
	for _, line := range outcome.Lines {
		metrics.Default.RecordStockCommitLine(line.Result)
	}

	return outcome, nil
}

// CancelByBuyer 买家取消：已送达或已取消的订单不可取消
func (s *orderService) CancelByBuyer(userID, orderID, reason, description string) (*model.Order, error) {
	order, err := s.GetOwnedOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	blocked := []string{model.StatusDelivered, model.StatusCancelled}
	return s.cancel(order, reason, description, model.CancelledByBuyer, blocked)
}

// CancelBySeller 卖家取消：发货后 (SHIPPED/DELIVERED) 不可取消
func (s *orderService) CancelBySeller(storeID, orderID, reason, description string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, ErrNotStoreOrder
	}

	blocked := []string{model.StatusShipped, model.StatusDelivered, model.StatusCancelled}
	return s.cancel(order, reason, description, model.CancelledBySeller, blocked)
}

func (s *orderService) cancel(order *model.Order, reason, description, actor string, blockedStatuses []string) (*model.Order, error) {
	if !model.IsValidCancelReason(actor, reason) {
		return nil, ErrInvalidReason
	}
	if len(description) > maxCancelDescriptionLen {
		return nil, ErrDescriptionTooLong
	}

	err := s.repo.Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.Cancel(tx, order.ID, reason, description, actor, blockedStatuses)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrStateConflict
		}

		// 回补策略可配置，默认不回补 (与人工补货流程保持一致)
		if !config.GlobalConfig.Stock.RestockOnCancel {
			return nil
		}

		// 只有确实提交过库存才回补；条件复位标记保证并发下至多回补一次
		restocking, err := s.repo.ClearStockCommitted(tx, order.ID)
		if err != nil {
			return err
		}
		if !restocking {
			return nil
		}

		productIDs := make(map[string]bool)
		for _, item := range order.OrderItems {
			product, err := s.products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product.IsClothing && item.SelectedSize != "" {
				err = s.products.IncrementSizeStock(tx, item.ProductID, item.SelectedSize, item.Quantity)
			} else {
				err = s.products.IncrementFlatStock(tx, item.ProductID, item.Quantity)
			}
			if err != nil {
				return err
			}
			productIDs[item.ProductID] = true
		}
		for productID := range productIDs {
			if err := s.products.RecomputeInStock(tx, productID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Default.RecordOrderCancelled(actor)
	s.notify(order.UserID, order.ID, "Order cancelled",
		fmt.Sprintf("Order %s has been cancelled", order.ID))

	return s.GetOrder(order.ID)
}

// MarkPaymentSuccess 支付成功对账，单调推进：
// 已是 SUCCESS 时重复调用是 no-op，直接返回订单 (双通道对账收敛)
func (s *orderService) MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method string) (*model.Order, error) {
	rows, err := s.repo.MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method)
	if err != nil {
		return nil, err
	}

	order, err := s.GetByGatewayOrderID(gatewayOrderID)
	if err != nil {
		return nil, err
	}

	if rows == 0 && order.PaymentStatus != model.PaymentStatusSuccess {
		// 没有命中守卫且不是已成功：处于 REFUNDED 等不可推进状态
		return nil, ErrStateConflict
	}

	if rows > 0 {
		metrics.Default.RecordOrderPaid()
		s.notify(order.UserID, order.ID, "Payment successful",
			fmt.Sprintf("Payment for order %s was successful", order.ID))
	}

	return order, nil
}

// MarkPaymentFailed 失败对账：只把 PENDING 置为 FAILED，不降级 SUCCESS
func (s *orderService) MarkPaymentFailed(gatewayOrderID string) error {
	if _, err := s.GetByGatewayOrderID(gatewayOrderID); err != nil {
		return err
	}
	_, err := s.repo.MarkPaymentFailed(gatewayOrderID)
	return err
}

// MarkRefunded 退款对账：只从 SUCCESS 进入 REFUNDED
func (s *orderService) MarkRefunded(gatewayPaymentID string) error {
	_, err := s.repo.MarkRefunded(gatewayPaymentID)
	return err
}

func (s *orderService) notify(userID, orderID, title, body string) {
	if s.workerPool == nil {
		return
	}
	s.workerPool.AddTask(worker.NotifyTask{
		UserID:  userID,
		OrderID: orderID,
		Title:   title,
		Body:    body,
	})
}
