package repository

import (
	"time"

	"gocart/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderRepository 订单仓库
// 所有状态迁移都是条件更新：WHERE 带上当前状态守卫，
// RowsAffected 为 0 表示守卫不满足 (已处于终态或并发竞争失败)
type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetByGatewayOrderID(gatewayOrderID string) (*model.Order, error)
	GetByGatewayPaymentID(gatewayPaymentID string) (*model.Order, error)
	GetListByUser(userID string, offset, limit int) ([]model.Order, int64, error)
	GetListByStore(storeID string, offset, limit int) ([]model.Order, int64, error)
	CountByUser(userID string) (int64, error)

	// MarkPaymentSuccess 单调推进：只从 PENDING/FAILED 进入 SUCCESS，
	// 已是 SUCCESS 时不做任何修改 (重放安全)
	MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method string) (int64, error)

	// MarkPaymentFailed 只从 PENDING 进入 FAILED，不降级 SUCCESS
	MarkPaymentFailed(gatewayOrderID string) (int64, error)

	// MarkRefunded 只从 SUCCESS 进入 REFUNDED
	MarkRefunded(gatewayPaymentID string) (int64, error)

	// AdvanceStatus 履约状态条件推进
	AdvanceStatus(orderID, from, to string) (int64, error)

	// Cancel 条件取消：当前状态不在 blockedStatuses 中才生效
	Cancel(tx *gorm.DB, orderID, reason, description, actor string, blockedStatuses []string) (int64, error)

	// MarkStockCommitted 库存提交幂等守卫：false→true，
	// 仅对已支付且未取消的订单生效，第二次调用或守卫不满足返回 false
	MarkStockCommitted(tx *gorm.DB, orderID string) (bool, error)

	// ClearStockCommitted 回补库存前复位标记：true→false，
	// 返回 false 表示本来就没有已提交的库存可回补
	ClearStockCommitted(tx *gorm.DB, orderID string) (bool, error)

	// Transaction 事务包装
	Transaction(fn func(tx *gorm.DB) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	// 订单与订单项在同一事务中落库
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("OrderItems").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByGatewayOrderID(gatewayOrderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("OrderItems").
		Where("gateway_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByGatewayPaymentID(gatewayPaymentID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("OrderItems").
		Where("gateway_payment_id = ?", gatewayPaymentID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("OrderItems").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) GetListByStore(storeID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("OrderItems").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *orderRepository) MarkPaymentSuccess(gatewayOrderID, paymentID, signature, method string) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("gateway_order_id = ? AND payment_status IN ?",
			gatewayOrderID, []string{model.PaymentStatusPending, model.PaymentStatusFailed}).
		Updates(map[string]interface{}{
			"payment_status":     model.PaymentStatusSuccess,
			"is_paid":            true,
			"gateway_payment_id": paymentID,
			"gateway_signature":  signature,
			"payment_method":     method,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) MarkPaymentFailed(gatewayOrderID string) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("gateway_order_id = ? AND payment_status = ?",
			gatewayOrderID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusFailed,
			"is_paid":        false,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) MarkRefunded(gatewayPaymentID string) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("gateway_payment_id = ? AND payment_status = ?",
			gatewayPaymentID, model.PaymentStatusSuccess).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusRefunded,
			"is_paid":        false,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) AdvanceStatus(orderID, from, to string) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		UpdateColumn("status", to)
	return result.RowsAffected, result.Error
}

func (r *orderRepository) Cancel(tx *gorm.DB, orderID, reason, description, actor string, blockedStatuses []string) (int64, error) {
	now := time.Now()
	result := tx.Model(&model.Order{}).
		Where("id = ? AND status NOT IN ?", orderID, blockedStatuses).
		Updates(map[string]interface{}{
			"status":                   model.StatusCancelled,
			"is_cancelled":             true,
			"cancellation_reason":      reason,
			"cancellation_description": description,
			"cancelled_by":             actor,
			"cancelled_at":             &now,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) MarkStockCommitted(tx *gorm.DB, orderID string) (bool, error) {
	// 支付与取消状态并入守卫：与取消事务竞争时，
	// 先落库的取消会让这里 0 行命中，扣减不会发生
	result := tx.Model(&model.Order{}).
		Where("id = ? AND stock_committed = false AND is_paid = true AND is_cancelled = false", orderID).
		UpdateColumn("stock_committed", true)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ClearStockCommitted(tx *gorm.DB, orderID string) (bool, error) {
	result := tx.Model(&model.Order{}).
		Where("id = ? AND stock_committed = true", orderID).
		UpdateColumn("stock_committed", false)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
