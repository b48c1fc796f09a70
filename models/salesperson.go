package models

// Salesperson represents a salesperson in the legacy "vendedores" table
type Salesperson struct {
	VendCod string  `gorm:"column:vendcod;primaryKey" json:"vendcod"`
	VendNom *string `gorm:"column:vendnom" json:"vendnom"`
}

// TableName specifies the table name for the Salesperson model
func (Salesperson) TableName() string {
	return "vendedores"
}
