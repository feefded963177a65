package models

// Setting is a key/value pair of site metadata
type Setting struct {
	ID    string `json:"id" db:"id" gorm:"type:varchar(64);primaryKey"`
	Value string `json:"value" db:"value" gorm:"type:text;not null"`
}

func (Setting) TableName() string { return "settings" }

// MetadataKeys are the settings exposed on the public surface
var MetadataKeys = []string{"about", "address", "email", "phone_number"}
