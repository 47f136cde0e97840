package handler

import (
	"errors"
	"net/http"

	"gocart/internal/domain/product/model"
	"gocart/internal/domain/product/service"
	"gocart/internal/pkg/middleware"
	"gocart/pkg/response"
	"gocart/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// ListProducts 商城商品列表
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, limit := utils.GetPagination(c)

	products, total, err := h.service.ListProducts(page, limit, c.Query("category"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"products": products,
		"total":    total,
	})
}

// GetProduct 商品详情
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, product)
}

type CreateProductInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	MRP         float64        `json:"mrp" binding:"required,gt=0"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Images      []string       `json:"images"`
	Category    string         `json:"category" binding:"required"`
	IsClothing  bool           `json:"isClothing"`
	StockData   map[string]int `json:"stockData" binding:"required"`
}

// CreateProduct 卖家创建商品
// @Summary 卖家创建商品
// @Tags Product
// @Accept json
// @Produce json
// @Param input body CreateProductInput true "Product Info"
// @Success 200 {object} response.Response
// @Router /store/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	caps, _ := middleware.GetCapabilities(c)

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		MRP:         input.MRP,
		Price:       input.Price,
		Images:      input.Images,
		Category:    input.Category,
		IsClothing:  input.IsClothing,
	}

	created, err := h.service.CreateProduct(caps.StoreID, product, input.StockData)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStock) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, created)
}

// ListStoreProducts 卖家商品列表
func (h *ProductHandler) ListStoreProducts(c *gin.Context) {
	caps, _ := middleware.GetCapabilities(c)
	page, limit := utils.GetPagination(c)

	products, total, err := h.service.ListStoreProducts(caps.StoreID, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"products": products,
		"total":    total,
	})
}

type UpdateStockInput struct {
	ProductID string         `json:"productId" binding:"required"`
	StockData map[string]int `json:"stockData" binding:"required"`
}

// UpdateStock 卖家设置库存
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var input UpdateStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	caps, _ := middleware.GetCapabilities(c)

	product, err := h.service.UpdateStock(caps.StoreID, input.ProductID, input.StockData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
		case errors.Is(err, service.ErrNotProductOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Product does not belong to your store")
		case errors.Is(err, service.ErrInvalidStock):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{
		"message":        "Stock updated successfully",
		"updatedProduct": product,
	})
}
