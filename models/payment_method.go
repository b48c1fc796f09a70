package models

// PaymentMethod represents a payment method in the legacy "pagos" table
type PaymentMethod struct {
	PagoCod int     `gorm:"column:pagocod;primaryKey;autoIncrement:false" json:"pagocod"`
	PagoNom *string `gorm:"column:pagonom" json:"pagonom"`
}

// TableName specifies the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "pagos"
}
