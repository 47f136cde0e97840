package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gocart/internal/domain/settings/service"
	"gocart/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

// GetSetting 读取单个设置 (公开)
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")

	setting, err := h.service.GetSetting(key)
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrInvalidParam, "setting not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, setting)
}

// GetAllSettings 管理员查看全部设置
func (h *SettingHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.service.GetAllSettings()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, settings)
}

type UpdateSettingInput struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// UpdateSetting 管理员更新设置
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")

	var input UpdateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	setting, err := h.service.UpdateSetting(key, input.Value)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, setting)
}
