package models

import "time"

// Order represents an order header in the legacy "ordenes" table.
// The primary key is assigned by the order service (max existing key + 1,
// computed inside the insert transaction), not by a database sequence.
type Order struct {
	OrdCod    int        `gorm:"column:ordcod;primaryKey;autoIncrement:false" json:"ordcod"`
	OrdFec    *time.Time `gorm:"column:ordfec" json:"ordfec"`
	OrdFecPro *time.Time `gorm:"column:ordfecpro" json:"ordfecpro"`
	OrdNumFac *string    `gorm:"column:ordnumfac" json:"ordnumfac"`
	VendCod   *string    `gorm:"column:vendcod" json:"vendcod"`
	CliCod    *string    `gorm:"column:clicod;index" json:"clicod"`
	CliDir    string     `gorm:"column:clidir" json:"clidir"` // client address snapshot taken at creation
	MonCod    *int       `gorm:"column:moncod" json:"moncod"`
	PagoCod   *int       `gorm:"column:pagocod" json:"pagocod"`
	EstCod    *int       `gorm:"column:estcod" json:"estcod"`
	OrdCom    *float64   `gorm:"column:ordcom" json:"ordcom"`
	OrdMon    *float64   `gorm:"column:ordmon" json:"ordmon"`
	OrdCos    *float64   `gorm:"column:ordcos" json:"ordcos"`
	OrdObs    *string    `gorm:"column:ordobs" json:"ordobs"`
	OrdMar    *string    `gorm:"column:ordmar" json:"ordmar"`
	OrdNuev   *bool      `gorm:"column:ordnuev" json:"ordnuev"`

	// Workflow flags
	OrdIns    bool `gorm:"column:ordins" json:"ordins"`
	OrdEnt    bool `gorm:"column:ordent" json:"ordent"`
	OrdAce    bool `gorm:"column:ordace" json:"ordace"`
	OrdRetCli bool `gorm:"column:ordretcli" json:"ordretcli"`
	OrdRetDec bool `gorm:"column:ordretdec" json:"ordretdec"`
	OrdEntVen bool `gorm:"column:ordentven" json:"ordentven"`
	OrdInsTec bool `gorm:"column:ordinstec" json:"ordinstec"`
	OrdRev    bool `gorm:"column:ordrev" json:"ordrev"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "ordenes"
}
