package models

// User represents a back-office user in the legacy "usuarios" table.
// UsuCla holds the bcrypt hash of the password and is never serialized.
type User struct {
	UsuCod    int    `gorm:"column:usucod;primaryKey" json:"usucod"`
	UsuNom    string `gorm:"column:usunom;uniqueIndex" json:"usunom"`
	UsuCla    string `gorm:"column:usucla" json:"-"`
	TipUsuCod *int   `gorm:"column:tipusucod" json:"tipusucod"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "usuarios"
}

// UserType represents a user role in the legacy "tipousuarios" table
type UserType struct {
	TipUsuCod int     `gorm:"column:tipusucod;primaryKey;autoIncrement:false" json:"tipusucod"`
	TipUsuNom *string `gorm:"column:tipusunom" json:"tipusunom"`
}

// TableName specifies the table name for the UserType model
func (UserType) TableName() string {
	return "tipousuarios"
}

// TipUsuCodAdmin is the role code with full access to mutating endpoints
const TipUsuCodAdmin = 1
