package handler

import (
	"errors"
	"net/http"
	"time"

	"gocart/internal/domain/coupon/model"
	"gocart/internal/domain/coupon/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(s service.CouponService) *CouponHandler {
	return &CouponHandler{service: s}
}

type ValidateCouponInput struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCoupon 校验优惠券 (资格判定在服务端完成)
// @Summary 校验优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Param input body ValidateCouponInput true "Coupon code"
// @Success 200 {object} response.Response
// @Router /coupons/validate [post]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input ValidateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon, err := h.service.ValidateCoupon(userID, input.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "coupon not found")
		case errors.Is(err, service.ErrCouponIneligible):
			response.Error(c, http.StatusForbidden, response.ErrCouponIneligible, "coupon not applicable")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, coupon)
}

// GetPublicCoupons 公开券列表
func (h *CouponHandler) GetPublicCoupons(c *gin.Context) {
	coupons, err := h.service.GetPublicCoupons()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, coupons)
}

type CreateCouponInput struct {
	Code            string    `json:"code" binding:"required"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount" binding:"required"`
	ForNewUser      bool      `json:"forNewUser"`
	ForMember       bool      `json:"forMember"`
	IsPublic        bool      `json:"isPublic"`
	ExpiresAt       time.Time `json:"expiresAt" binding:"required"`
}

// CreateCoupon 管理员创建优惠券
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input CreateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	coupon := &model.Coupon{
		Code:            input.Code,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		ForNewUser:      input.ForNewUser,
		ForMember:       input.ForMember,
		IsPublic:        input.IsPublic,
		ExpiresAt:       input.ExpiresAt,
	}

	if err := h.service.CreateCoupon(coupon); err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, coupon)
}

// ListCoupons 管理员查看所有券
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page, limit := utils.GetPagination(c)

	coupons, total, err := h.service.ListCoupons(page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"coupons": coupons,
		"total":   total,
	})
}

// DeleteCoupon 管理员删除券
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	code := c.Param("code")

	if err := h.service.DeleteCoupon(code); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "coupon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, nil)
}
