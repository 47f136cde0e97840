package model

import (
	"encoding/json"
	"time"

	baseModel "gocart/pkg/model"
)

// Order 订单聚合根
// 订单连同订单项、地址快照作为一个一致性单元创建，创建后 total 不再变化
type Order struct {
	baseModel.BaseModel
	UserID    string  `gorm:"type:uuid;index;not null" json:"userId"`
	StoreID   string  `gorm:"type:uuid;index;not null" json:"storeId"`
	AddressID string  `gorm:"type:uuid;not null" json:"addressId"`
	Total     float64 `gorm:"not null" json:"total"`

	// 履约状态：ORDER_PLACED → PROCESSING → SHIPPED → DELIVERED，
	// SHIPPED/DELIVERED 之前可被转向 CANCELLED
	Status string `gorm:"type:varchar(20);default:'ORDER_PLACED';index" json:"status"`

	// 支付状态：PENDING → {SUCCESS|FAILED} → REFUNDED，单调推进不回退
	PaymentStatus string `gorm:"type:varchar(20);default:'PENDING'" json:"paymentStatus"`
	PaymentMethod string `gorm:"type:varchar(30)" json:"paymentMethod"`
	IsPaid        bool   `gorm:"default:false" json:"isPaid"`

	// 取消元数据
	IsCancelled             bool       `gorm:"default:false" json:"isCancelled"`
	CancellationReason      string     `gorm:"type:varchar(40)" json:"cancellationReason,omitempty"`
	CancellationDescription string     `gorm:"type:varchar(500)" json:"cancellationDescription,omitempty"`
	CancelledBy             string     `gorm:"type:varchar(10)" json:"cancelledBy,omitempty"`
	CancelledAt             *time.Time `json:"cancelledAt,omitempty"`

	// 网关关联
	GatewayOrderID   string `gorm:"uniqueIndex;not null" json:"gatewayOrderId"`
	GatewayPaymentID string `gorm:"index" json:"gatewayPaymentId,omitempty"`
	GatewaySignature string `json:"-"`

	// 优惠券快照 (非实时引用)
	Coupon       json.RawMessage `gorm:"type:jsonb;default:'{}'" json:"coupon"`
	IsCouponUsed bool            `gorm:"default:false" json:"isCouponUsed"`

	// 库存提交幂等标记：同一订单的库存扣减至多生效一次
	StockCommitted bool `gorm:"default:false" json:"stockCommitted"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`
}

// OrderItem 订单项，价格为下单时快照，创建后不可变
type OrderItem struct {
	baseModel.BaseModel
	OrderID      string  `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID    string  `gorm:"type:uuid;not null" json:"productId"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	Price        float64 `gorm:"not null" json:"price"`
	SelectedSize string  `gorm:"type:varchar(10)" json:"selectedSize,omitempty"`
}

// 履约状态
const (
	StatusOrderPlaced = "ORDER_PLACED"
	StatusProcessing  = "PROCESSING"
	StatusShipped     = "SHIPPED"
	StatusDelivered   = "DELIVERED"
	StatusCancelled   = "CANCELLED"
)

// 支付状态
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusSuccess  = "SUCCESS"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// 取消操作方
const (
	CancelledByBuyer  = "buyer"
	CancelledBySeller = "seller"
)

// statusRank 履约状态推进序，只允许前进
var statusRank = map[string]int{
	StatusOrderPlaced: 0,
	StatusProcessing:  1,
	StatusShipped:     2,
	StatusDelivered:   3,
}

// CanAdvanceTo 校验履约状态是否可以推进到 target
func CanAdvanceTo(current, target string) bool {
	currentRank, ok1 := statusRank[current]
	targetRank, ok2 := statusRank[target]
	if !ok1 || !ok2 {
		// CANCELLED 不在推进序中：不可从它推进，也不可推进到它
		return false
	}
	return targetRank > currentRank
}

// buyerCancelReasons 买家取消原因
var buyerCancelReasons = map[string]bool{
	"CHANGED_MIND":      true,
	"FOUND_CHEAPER":     true,
	"DONT_NEED_ANYMORE": true,
	"DELIVERY_LATE":     true,
	"OTHER_REASON":      true,
}

// sellerCancelReasons 卖家取消原因
var sellerCancelReasons = map[string]bool{
	"OUT_OF_STOCK":          true,
	"INSUFFICIENT_QUANTITY": true,
	"PRODUCT_UNAVAILABLE":   true,
	"QUALITY_ISSUE":         true,
	"SELLER_REQUEST":        true,
}

// IsValidCancelReason 校验取消原因是否属于对应操作方的词表
func IsValidCancelReason(actor, reason string) bool {
	switch actor {
	case CancelledByBuyer:
		return buyerCancelReasons[reason]
	case CancelledBySeller:
		return sellerCancelReasons[reason]
	}
	return false
}

// 库存提交单行结果
const (
	LineCommitted         = "committed"
	LineInsufficientStock = "insufficient_stock"
)

// 库存提交订单级结果
const (
	CommitOutcomeCommitted        = "committed"
	CommitOutcomePartial          = "partial"
	CommitOutcomeInsufficient     = "insufficient_stock"
	CommitOutcomeAlreadyCommitted = "already_committed"
)

// LineCommitResult 单个订单项的库存扣减结果
type LineCommitResult struct {
	ProductID    string `json:"productId"`
	SelectedSize string `json:"selectedSize,omitempty"`
	Quantity     int    `json:"quantity"`
	Result       string `json:"result"`
}

// StockCommitOutcome 库存提交的订单级结果
// 不再静默跳过库存不足的行，调用方可据此决定部分履约或人工处理
type StockCommitOutcome struct {
	OrderID string             `json:"orderId"`
	Outcome string             `json:"outcome"`
	Lines   []LineCommitResult `json:"lines,omitempty"`
}
