package service

import (
	"errors"

	"gocart/internal/domain/product/model"
	"gocart/internal/domain/product/repository"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("product does not belong to store")
	ErrInvalidStock    = errors.New("stock units must not be negative")
)

// ProductService 商品服务接口
type ProductService interface {
	CreateProduct(storeID string, product *model.Product, sizes map[string]int) (*model.Product, error)
	GetProduct(id string) (*model.Product, error)
	ListProducts(page, limit int, category string) ([]model.Product, int64, error)
	ListStoreProducts(storeID string, page, limit int) ([]model.Product, int64, error)
	UpdateStock(storeID, productID string, stockData map[string]int) (*model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// CreateProduct 卖家创建商品
// 服饰商品传入尺码库存映射，非服饰商品传入 {"units": n}
func (s *productService) CreateProduct(storeID string, product *model.Product, sizes map[string]int) (*model.Product, error) {
	product.StoreID = storeID

	total := 0
	if product.IsClothing {
		for size, units := range sizes {
			if units < 0 {
				return nil, ErrInvalidStock
			}
			total += units
			product.ProductSizes = append(product.ProductSizes, model.ProductSize{
				Size:           size,
				AvailableUnits: units,
				TotalUnits:     units,
			})
		}
	} else {
		units := sizes["units"]
		if units < 0 {
			return nil, ErrInvalidStock
		}
		total = units
	}

	product.TotalUnits = total
	product.InStock = total > 0

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(id string) (*model.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(page, limit int, category string) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetList((page-1)*limit, limit, category)
}

func (s *productService) ListStoreProducts(storeID string, page, limit int) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetByStore(storeID, (page-1)*limit, limit)
}

// UpdateStock 卖家直接设置库存
// 服饰商品按尺码设置，非服饰读取 {"units": n}，随后重算 inStock
func (s *productService) UpdateStock(storeID, productID string, stockData map[string]int) (*model.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, ErrNotProductOwner
	}

	if product.IsClothing {
		total := 0
		for size, units := range stockData {
			if units < 0 {
				return nil, ErrInvalidStock
			}
			total += units
			if err := s.repo.SetSizeStock(productID, size, units); err != nil {
				return nil, err
			}
		}
		if err := s.repo.SetTotalUnits(productID, total); err != nil {
			return nil, err
		}
	} else {
		units := stockData["units"]
		if units < 0 {
			return nil, ErrInvalidStock
		}
		if err := s.repo.SetFlatStock(productID, units); err != nil {
			return nil, err
		}
	}

	return s.GetProduct(productID)
}
