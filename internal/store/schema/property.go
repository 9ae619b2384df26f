package schema

import "time"

// Property keys
const (
	// PropertyKeySyncWatermark stores the last directory time consumed by a completed sync pass
	PropertyKeySyncWatermark = "sync_watermark"
	// PropertyKeySchemaVersion stores the schema version the index tables were created with
	PropertyKeySchemaVersion = "schema_version"
)

// Property represents the smartdial_properties table
// Small key-value store holding the sync watermark and schema version
type Property struct {
	Key       string    `gorm:"column:key;primaryKey;type:text"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the Property model
func (Property) TableName() string {
	return "smartdial_properties"
}
