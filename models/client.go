package models

// Client represents a customer in the legacy "clientes" table.
// CliCodBit is the alternate code used to correlate the row with the
// external vendor ERP during synchronization.
type Client struct {
	CliCod    string  `gorm:"column:clicod;primaryKey" json:"clicod"`
	CliCodBit *string `gorm:"column:clicodbit" json:"clicodbit"`
	CliNom    *string `gorm:"column:clinom" json:"clinom"`
	CliRazSoc *string `gorm:"column:clirazsoc" json:"clirazsoc"`
	CliRuc    *string `gorm:"column:cliruc" json:"cliruc"`
	CliDir    *string `gorm:"column:clidir" json:"clidir"`
	CliEst    *bool   `gorm:"column:cliest" json:"cliest"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clientes"
}
