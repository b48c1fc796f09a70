package models

// Product represents a catalog product in the legacy "productos" table.
// ParentProductID is a single-level self reference: a kit/bundle points to
// its components through their ParentProductID, not the other way around.
type Product struct {
	ProdCod         string  `gorm:"column:prodcod;primaryKey" json:"prodcod"`
	ProdNom         *string `gorm:"column:prodnom" json:"prodnom"`
	TipProdCod      *string `gorm:"column:tipprodcod;index" json:"tipprodcod"`
	ParentProductID *string `gorm:"column:parentproductid;index" json:"parentproductid"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "productos"
}

// PlaceholderProductName is the name given to products auto-created when an
// order line references an unknown product code.
const PlaceholderProductName = "Nombre temporal"
