package services

import (
	"fmt"

	"github.com/gonzalofarias/distribuidora-api/models"
	"gorm.io/gorm"
)

// ProductService maintains the product catalog, including the
// single-level parent/component relationship between products.
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a ProductService
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ProductInput carries the writable product fields
type ProductInput struct {
	ProdCod         string  `json:"prodcod" binding:"required"`
	ProdNom         *string `json:"prodnom"`
	TipProdCod      *string `json:"tipprodcod"`
	ParentProductID *string `json:"parentproductid"`
}

// ListProducts returns the full catalog ordered by code
func (s *ProductService) ListProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Order("prodcod").Find(&products).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return products, nil
}

// GetProduct returns one product with its components
func (s *ProductService) GetProduct(prodCod string) (*models.Product, []models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "prodcod = ?", prodCod).Error; err != nil {
		return nil, nil, TranslateDBError(err)
	}
	var components []models.Product
	if err := s.db.Where("parentproductid = ?", prodCod).Order("prodcod").Find(&components).Error; err != nil {
		return nil, nil, TranslateDBError(err)
	}
	return &product, components, nil
}

// CreateProduct inserts a new product. The product type and the parent,
// when given, must already exist.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}
	product := models.Product{
		ProdCod:         input.ProdCod,
		ProdNom:         input.ProdNom,
		TipProdCod:      input.TipProdCod,
		ParentProductID: input.ParentProductID,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return &product, nil
}

// UpdateProduct fully replaces a product's writable fields
func (s *ProductService) UpdateProduct(prodCod string, input ProductInput) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "prodcod = ?", prodCod).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	input.ProdCod = prodCod
	if err := s.checkReferences(input); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"prodnom":         input.ProdNom,
		"tipprodcod":      input.TipProdCod,
		"parentproductid": input.ParentProductID,
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return &product, nil
}

// SetComponents points the given component products at a parent. Every
// component must already exist; the whole assignment is transactional.
func (s *ProductService) SetComponents(parentCod string, componentCods []string) error {
	var parent models.Product
	if err := s.db.First(&parent, "prodcod = ?", parentCod).Error; err != nil {
		return fmt.Errorf("parent %q: %w", parentCod, TranslateDBError(err))
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, cod := range componentCods {
			if cod == parentCod {
				return fmt.Errorf("%w: product %q cannot be its own component", ErrInvalidInput, cod)
			}
			var component models.Product
			if err := tx.First(&component, "prodcod = ?", cod).Error; err != nil {
				return fmt.Errorf("component %q: %w", cod, TranslateDBError(err))
			}
			if err := tx.Model(&component).Update("parentproductid", parentCod).Error; err != nil {
				return TranslateDBError(err)
			}
		}
		return nil
	})
}

// DeleteProduct removes a product and detaches its components
func (s *ProductService) DeleteProduct(prodCod string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("parentproductid = ?", prodCod).
			Update("parentproductid", nil).Error; err != nil {
			return TranslateDBError(err)
		}
		result := tx.Delete(&models.Product{}, "prodcod = ?", prodCod)
		if result.Error != nil {
			return TranslateDBError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *ProductService) checkReferences(input ProductInput) error {
	if input.TipProdCod != nil && *input.TipProdCod != "" {
		var productType models.ProductType
		if err := s.db.First(&productType, "tipprodcod = ?", *input.TipProdCod).Error; err != nil {
			return fmt.Errorf("product type %q: %w", *input.TipProdCod, TranslateDBError(err))
		}
	}
	if input.ParentProductID != nil && *input.ParentProductID != "" {
		if *input.ParentProductID == input.ProdCod {
			return fmt.Errorf("%w: product %q cannot be its own parent", ErrInvalidInput, input.ProdCod)
		}
		var parent models.Product
		if err := s.db.First(&parent, "prodcod = ?", *input.ParentProductID).Error; err != nil {
			return fmt.Errorf("parent %q: %w", *input.ParentProductID, TranslateDBError(err))
		}
	}
	return nil
}
