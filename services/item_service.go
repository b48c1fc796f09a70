package services

import (
	"fmt"

	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/utils"
	"gorm.io/gorm"
)

// ItemService maintains serialized inventory units. Dates cross the API
// boundary as YYYY-MM-DD strings and are stored as timestamps.
type ItemService struct {
	db *gorm.DB
}

// NewItemService creates an ItemService
func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// StandaloneItemInput carries the writable fields of an item managed
// outside an order workflow
type StandaloneItemInput struct {
	NumSerie   *string  `json:"numserie"`
	ItemCom    *string  `json:"itemcom"`
	ItemEst    *bool    `json:"itemest"`
	ItemFec    *string  `json:"itemfec"`
	ItemGar    *string  `json:"itemgar"`
	ItemGas    *float64 `json:"itemgas"`
	ItemVen    *float64 `json:"itemven"`
	ProdCod    string   `json:"prodcod" binding:"required"`
	OrdProdCod *int     `json:"ordprodcod"`
}

// ListItems returns items, optionally filtered by product
func (s *ItemService) ListItems(prodCod string) ([]ItemResponse, error) {
	query := s.db.Order("itemcod")
	if prodCod != "" {
		query = query.Where("prodcod = ?", prodCod)
	}
	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	response := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItemResponse(item))
	}
	return response, nil
}

// GetItem returns one item with dates formatted
func (s *ItemService) GetItem(itemCod int) (*ItemResponse, error) {
	var item models.Item
	if err := s.db.First(&item, "itemcod = ?", itemCod).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	response := toItemResponse(item)
	return &response, nil
}

// CreateItem inserts an item for an existing product
func (s *ItemService) CreateItem(input StandaloneItemInput) (*ItemResponse, error) {
	item, err := s.buildItem(input)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	response := toItemResponse(*item)
	return &response, nil
}

// UpdateItem fully replaces an item's writable fields
func (s *ItemService) UpdateItem(itemCod int, input StandaloneItemInput) (*ItemResponse, error) {
	var existing models.Item
	if err := s.db.First(&existing, "itemcod = ?", itemCod).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	item, err := s.buildItem(input)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"numserie":   item.NumSerie,
		"itemcom":    item.ItemCom,
		"itemest":    item.ItemEst,
		"itemfec":    item.ItemFec,
		"itemgar":    item.ItemGar,
		"itemgas":    item.ItemGas,
		"itemven":    item.ItemVen,
		"prodcod":    item.ProdCod,
		"ordprodcod": item.OrdProdCod,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	response := toItemResponse(existing)
	return &response, nil
}

// DeleteItem removes one item
func (s *ItemService) DeleteItem(itemCod int) error {
	result := s.db.Delete(&models.Item{}, "itemcod = ?", itemCod)
	if result.Error != nil {
		return TranslateDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ItemService) buildItem(input StandaloneItemInput) (*models.Item, error) {
	var product models.Product
	if err := s.db.First(&product, "prodcod = ?", input.ProdCod).Error; err != nil {
		return nil, fmt.Errorf("product %q: %w", input.ProdCod, TranslateDBError(err))
	}
	if input.OrdProdCod != nil {
		var line models.OrderLine
		if err := s.db.First(&line, "ordprodcod = ?", *input.OrdProdCod).Error; err != nil {
			return nil, fmt.Errorf("order line %d: %w", *input.OrdProdCod, TranslateDBError(err))
		}
	}
	itemFec, err := utils.ParseDate(derefStr(input.ItemFec))
	if err != nil {
		return nil, fmt.Errorf("%w: itemfec", ErrInvalidInput)
	}
	itemGar, err := utils.ParseDate(derefStr(input.ItemGar))
	if err != nil {
		return nil, fmt.Errorf("%w: itemgar", ErrInvalidInput)
	}
	return &models.Item{
		NumSerie:   input.NumSerie,
		ItemCom:    input.ItemCom,
		ItemEst:    input.ItemEst,
		ItemFec:    itemFec,
		ItemGar:    itemGar,
		ItemGas:    input.ItemGas,
		ItemVen:    input.ItemVen,
		ProdCod:    input.ProdCod,
		OrdProdCod: input.OrdProdCod,
	}, nil
}
