package models

// Supplier represents a supplier in the legacy "proveedores" table
type Supplier struct {
	ProvCod string  `gorm:"column:provcod;primaryKey" json:"provcod"`
	ProvNom *string `gorm:"column:provnom" json:"provnom"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "proveedores"
}
