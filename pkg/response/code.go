package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 优惠券模块错误 200xx
	ErrCouponNotFound   = 20001
	ErrCouponExpired    = 20002
	ErrCouponIneligible = 20003

	// 订单模块错误 300xx
	ErrOrderNotFound       = 30001
	ErrOrderStateConflict  = 30002
	ErrStockInsufficient   = 30003
	ErrStockCommitted      = 30004
	ErrInvalidCancelReason = 30005
	ErrOrderNotOwned       = 30006

	// 支付模块错误 400xx
	ErrPaymentNotFound    = 40001
	ErrSignatureMismatch  = 40002
	ErrGatewayUnavailable = 40003

	// 店铺/商品模块错误 600xx
	ErrStoreNotFound    = 60001
	ErrStoreNotApproved = 60002
	ErrProductNotFound  = 60003

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
