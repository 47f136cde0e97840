package handler

import (
	"errors"
	"net/http"

	"gocart/internal/domain/settings/service"
	"gocart/pkg/response"

	"github.com/gin-gonic/gin"
)

type FaqHandler struct {
	service service.FaqService
}

func NewFaqHandler(s service.FaqService) *FaqHandler {
	return &FaqHandler{service: s}
}

// ListFaqs 公开 FAQ 列表
func (h *FaqHandler) ListFaqs(c *gin.Context) {
	faqs, err := h.service.ListFaqs()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, faqs)
}

type CreateFaqInput struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// CreateFaq 管理员新增 FAQ
func (h *FaqHandler) CreateFaq(c *gin.Context) {
	var input CreateFaqInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	faq, err := h.service.CreateFaq(input.Question, input.Answer)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFaq) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, faq)
}

// DeleteFaq 管理员删除 FAQ
func (h *FaqHandler) DeleteFaq(c *gin.Context) {
	if err := h.service.DeleteFaq(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrFaqNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrInvalidParam, "faq not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
