package models

// Currency represents a currency in the legacy "monedas" table
type Currency struct {
	MonCod int     `gorm:"column:moncod;primaryKey;autoIncrement:false" json:"moncod"`
	MonNom *string `gorm:"column:monnom" json:"monnom"`
}

// TableName specifies the table name for the Currency model
func (Currency) TableName() string {
	return "monedas"
}
