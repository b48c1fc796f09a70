package models

import "time"

// Item represents a serialized inventory unit in the legacy "items" table.
// An item always belongs to a product; it additionally carries the order-line
// linkage whenever it was created through the order workflows. Dates are
// stored as timestamps and exchanged with API clients as YYYY-MM-DD strings.
type Item struct {
	ItemCod    int        `gorm:"column:itemcod;primaryKey" json:"itemcod"`
	NumSerie   *string    `gorm:"column:numserie;index" json:"numserie"`
	ItemCom    *string    `gorm:"column:itemcom" json:"itemcom"`
	ItemEst    *bool      `gorm:"column:itemest" json:"itemest"`
	ItemFec    *time.Time `gorm:"column:itemfec" json:"itemfec"`
	ItemGar    *time.Time `gorm:"column:itemgar" json:"itemgar"`
	ItemGas    *float64   `gorm:"column:itemgas" json:"itemgas"`
	ItemVen    *float64   `gorm:"column:itemven" json:"itemven"`
	ProdCod    string     `gorm:"column:prodcod;index" json:"prodcod"`
	OrdProdCod *int       `gorm:"column:ordprodcod;index" json:"ordprodcod"`
}

// TableName specifies the table name for the Item model
func (Item) TableName() string {
	return "items"
}
