package models

// OrderState represents an order workflow state in the legacy "estados" table
type OrderState struct {
	EstCod int     `gorm:"column:estcod;primaryKey;autoIncrement:false" json:"estcod"`
	EstNom *string `gorm:"column:estnom" json:"estnom"`
}

// TableName specifies the table name for the OrderState model
func (OrderState) TableName() string {
	return "estados"
}

// EstCodCancelled is the sentinel state for cancelled orders. Cancelled
// orders stay in the table but are hidden from listings; direct reads by
// key still return them.
const EstCodCancelled = 6
