package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gocart/internal/domain/user/model"
	"gocart/internal/domain/user/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

type LoginInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Login 登录或注册
// @Summary 登录或注册 (身份由上游认证服务校验)
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "User identity"
// @Success 200 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.LoginOrRegister(input.Email, input.Name, input.Image)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetMe 获取当前用户资料
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.service.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, user)
}

type UpdateMeInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input UpdateMeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateUser(middleware.GetUserID(c), input.Name, input.Image)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, user)
}

// GetCart 获取购物车
func (h *UserHandler) GetCart(c *gin.Context) {
	cart, err := h.service.GetCart(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"cart": cart})
}

type SaveCartInput struct {
	Cart json.RawMessage `json:"cart" binding:"required"`
}

// SaveCart 保存购物车
func (h *UserHandler) SaveCart(c *gin.Context) {
	var input SaveCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SaveCart(middleware.GetUserID(c), input.Cart); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Cart updated"})
}

// CreateAddress 新增收货地址
func (h *UserHandler) CreateAddress(c *gin.Context) {
	var address model.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if address.Name == "" || address.Street == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "name and street are required")
		return
	}

	if err := h.service.CreateAddress(middleware.GetUserID(c), &address); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, address)
}

// GetAddresses 获取地址列表
func (h *UserHandler) GetAddresses(c *gin.Context) {
	addresses, err := h.service.GetAddresses(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addresses)
}

// GetUsers 管理员用户列表
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, limit := utils.GetPagination(c)

	users, total, err := h.service.GetUsers(page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
