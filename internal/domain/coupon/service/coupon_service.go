package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gocart/internal/domain/coupon/model"
	"gocart/internal/domain/coupon/repository"
	userModel "gocart/internal/domain/user/model"
	"gocart/pkg/cache"
	"gocart/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponIneligible = errors.New("coupon not applicable for this user")
	ErrInvalidCoupon    = errors.New("invalid coupon definition")
)

const couponCacheTTL = 5 * time.Minute

// UserProvider 资格判定需要的用户视图
type UserProvider interface {
	GetByID(id string) (*userModel.User, error)
}

// OrderCounter 新客判定：历史订单数为零
type OrderCounter interface {
	CountByUser(userID string) (int64, error)
}

type CouponService interface {
	ValidateCoupon(userID, code string) (*model.Coupon, error)
	GetPublicCoupons() ([]model.Coupon, error)
	CreateCoupon(coupon *model.Coupon) error
	ListCoupons(page, limit int) ([]model.Coupon, int64, error)
	DeleteCoupon(code string) error
}

type couponService struct {
	repo   repository.CouponRepository
	users  UserProvider
	orders OrderCounter
	cache  cache.CacheService
}

func NewCouponService(repo repository.CouponRepository, users UserProvider, orders OrderCounter, c cache.CacheService) CouponService {
	return &couponService{
		repo:   repo,
		users:  users,
		orders: orders,
		cache:  c,
	}
}

// ValidateCoupon 校验券码并做资格判定
// 过期券与不存在的券对调用方不可区分，避免泄露券码是否有效
func (s *couponService) ValidateCoupon(userID, code string) (*model.Coupon, error) {
	coupon, err := s.getCoupon(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if coupon.IsExpired(time.Now()) {
		return nil, ErrCouponNotFound
	}

	// 多个限定条件满足其一即可用
	if coupon.ForNewUser || coupon.ForMember {
		canUseAsNewUser := false
		if coupon.ForNewUser {
			count, err := s.orders.CountByUser(userID)
			if err != nil {
				return nil, err
			}
			canUseAsNewUser = count == 0
		}

		canUseAsMember := false
		if coupon.ForMember {
			user, err := s.users.GetByID(userID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			canUseAsMember = err == nil && user.IsMember()
		}

		if !canUseAsNewUser && !canUseAsMember {
			return nil, ErrCouponIneligible
		}
	}

	return coupon, nil
}

// getCoupon 读穿缓存：Redis 命中直接返回，未命中回源并回填
func (s *couponService) getCoupon(code string) (*model.Coupon, error) {
	ctx := context.Background()
	key := "coupon:" + code

	var cached model.Coupon
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// Redis 故障时退化为直接查库
		logger.Log.Warn("coupon cache read failed", zap.String("code", code), zap.Error(err))
	}

	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, coupon, couponCacheTTL); err != nil {
		logger.Log.Warn("coupon cache write failed", zap.String("code", code), zap.Error(err))
	}

	return coupon, nil
}

func (s *couponService) GetPublicCoupons() ([]model.Coupon, error) {
	coupons, _, err := s.repo.GetList(0, 100)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	public := make([]model.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.IsPublic && !c.IsExpired(now) {
			public = append(public, c)
		}
	}
	return public, nil
}

func (s *couponService) CreateCoupon(coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	if coupon.Code == "" || coupon.DiscountPercent < 1 || coupon.DiscountPercent > 100 {
		return ErrInvalidCoupon
	}
	if coupon.IsExpired(time.Now()) {
		return ErrInvalidCoupon
	}
	return s.repo.Create(coupon)
}

func (s *couponService) ListCoupons(page, limit int) ([]model.Coupon, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetList((page-1)*limit, limit)
}

func (s *couponService) DeleteCoupon(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	rows, err := s.repo.DeleteByCode(code)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCouponNotFound
	}

	if err := s.cache.Delete(context.Background(), "coupon:"+code); err != nil {
		logger.Log.Warn("coupon cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
	return nil
}
