package models

// OrderLine represents a line of an order in the legacy "ordenesproductos"
// table. Lines are owned exclusively by their order: updates replace the full
// set and deletes cascade from the order service. OrdProdCod is assigned
// max+1 in the same transaction that inserts the line.
type OrderLine struct {
	OrdProdCod int      `gorm:"column:ordprodcod;primaryKey;autoIncrement:false" json:"ordprodcod"`
	OrdCod     int      `gorm:"column:ordcod;index" json:"ordcod"`
	ProdCod    string   `gorm:"column:prodcod;index" json:"prodcod"`
	ProvCod    *string  `gorm:"column:provcod" json:"provcod"`
	OrdProdCan int      `gorm:"column:ordprodcan" json:"ordprodcan"`
	ProdCost   *float64 `gorm:"column:prodcost" json:"prodcost"`
	ProdVent   *float64 `gorm:"column:prodvent" json:"prodvent"`
	ProdGast   *float64 `gorm:"column:prodgast" json:"prodgast"`
	OrdProdLle bool     `gorm:"column:ordprodlle" json:"ordprodlle"`
}

// TableName specifies the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "ordenesproductos"
}
