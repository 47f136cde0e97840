package handler

import (
	"errors"
	"net/http"

	orderService "gocart/internal/domain/order/service"
	"gocart/internal/domain/rating/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	service service.RatingService
}

func NewRatingHandler(s service.RatingService) *RatingHandler {
	return &RatingHandler{service: s}
}

type RateProductInput struct {
	OrderID   string `json:"orderId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Review    string `json:"review"`
}

// RateProduct 对已送达订单中的商品评分
// @Summary 商品评分
// @Tags Rating
// @Accept json
// @Produce json
// @Param input body RateProductInput true "Rating"
// @Success 200 {object} response.Response
// @Router /ratings [post]
func (h *RatingHandler) RateProduct(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input RateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	rating, err := h.service.RateProduct(userID, input.OrderID, input.ProductID, input.Rating, input.Review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidScore), errors.Is(err, service.ErrReviewTooLong),
			errors.Is(err, service.ErrProductNotInOrder):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		case errors.Is(err, service.ErrOrderNotDelivered):
			response.Conflict(c, response.ErrOrderStateConflict, "order is not delivered yet")
		case errors.Is(err, orderService.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "order not found")
		case errors.Is(err, orderService.ErrNotOrderOwner):
			response.Error(c, http.StatusForbidden, response.ErrOrderNotOwned, "no access to this order")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, rating)
}

// GetProductRatings 商品评分列表 (公开)
func (h *RatingHandler) GetProductRatings(c *gin.Context) {
	productID := c.Param("id")
	page, limit := utils.GetPagination(c)

	ratings, total, err := h.service.GetProductRatings(productID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	avg, count, err := h.service.GetProductScore(productID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"ratings": ratings,
		"total":   total,
		"average": avg,
		"count":   count,
	})
}

// GetMyRatings 当前用户的全部评分
func (h *RatingHandler) GetMyRatings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ratings, err := h.service.GetUserRatings(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, ratings)
}
