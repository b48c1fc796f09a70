package models

// ProductType represents a product family in the legacy "tipoproductos" table
type ProductType struct {
	TipProdCod string  `gorm:"column:tipprodcod;primaryKey" json:"tipprodcod"`
	TipProdGru *int    `gorm:"column:tipprodgru" json:"tipprodgru"`
	TipProdNom *string `gorm:"column:tipprodnom" json:"tipprodnom"`
	TipProdImp *bool   `gorm:"column:tipprodimp" json:"tipprodimp"`
}

// TableName specifies the table name for the ProductType model
func (ProductType) TableName() string {
	return "tipoproductos"
}
