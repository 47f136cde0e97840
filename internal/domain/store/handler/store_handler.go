package handler

import (
	"errors"
	"net/http"

	"gocart/internal/domain/store/model"
	"gocart/internal/domain/store/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	service service.StoreService
}

func NewStoreHandler(s service.StoreService) *StoreHandler {
	return &StoreHandler{service: s}
}

type CreateStoreInput struct {
	Name        string `json:"name" binding:"required"`
	Username    string `json:"username" binding:"required,alphanum"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Contact     string `json:"contact"`
	Logo        string `json:"logo"`
}

// CreateStore 申请开店
// @Summary 申请开店，等待管理员审批
// @Tags Store
// @Accept json
// @Produce json
// @Param input body CreateStoreInput true "Store Info"
// @Success 200 {object} response.Response
// @Router /stores [post]
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var input CreateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	store := &model.Store{
		Name:        input.Name,
		Username:    input.Username,
		Description: input.Description,
		Email:       input.Email,
		Contact:     input.Contact,
		Logo:        input.Logo,
	}

	created, err := h.service.CreateStore(middleware.GetUserID(c), store)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreExists):
			response.Fail(c, response.ErrStoreNotApproved, "You already have a store")
		case errors.Is(err, service.ErrUsernameTaken):
			response.Fail(c, response.ErrStoreNotApproved, "Store username already taken")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, created)
}

// IsSeller 当前用户是否为卖家
func (h *StoreHandler) IsSeller(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)
	response.Success(c, gin.H{
		"isSeller": caps.StoreID != "",
		"storeId":  caps.StoreID,
	})
}

// Dashboard 卖家看板
func (h *StoreHandler) Dashboard(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)

	data, err := h.service.GetDashboard(caps.StoreID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"dashboardData": data})
}

// ListStores 管理员店铺列表
func (h *StoreHandler) ListStores(c *gin.Context) {
	page, limit := utils.GetPagination(c)
	status := c.Query("status")

	stores, total, err := h.service.ListStores(status, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"stores": stores,
		"total":  total,
	})
}

type ApproveStoreInput struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ApproveStore 管理员审批店铺
func (h *StoreHandler) ApproveStore(c *gin.Context) {
	var input ApproveStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.ApproveStore(c.Param("id"), *input.Approve); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "Store not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Store status updated"})
}

// ToggleActive 管理员启用/停用店铺
func (h *StoreHandler) ToggleActive(c *gin.Context) {
	store, err := h.service.ToggleActive(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "Store not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, store)
}
