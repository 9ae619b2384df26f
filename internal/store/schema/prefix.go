package schema

// PrefixEntry represents the smartdial_prefixes table
// Maps a keypad-digit prefix of a name token or number token to the contact owning it
type PrefixEntry struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID int64  `gorm:"column:contact_id;not null;index:idx_smartdial_prefixes_contact_id"`
	Prefix    string `gorm:"column:prefix;not null;type:text;index:idx_smartdial_prefixes_prefix"`
}

// TableName specifies the table name for the PrefixEntry model
func (PrefixEntry) TableName() string {
	return "smartdial_prefixes"
}
