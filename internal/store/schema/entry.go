package schema

// IndexedEntry represents the smartdial_entries table
// One row per (contact, phone number). Rows are never updated in place: a sync
// pass deletes every row of a changed contact and inserts fresh ones.
type IndexedEntry struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ContactID is the identifier of the contact in the external directory
	ContactID int64 `gorm:"column:contact_id;not null;index:idx_smartdial_entries_contact_id;index:idx_smartdial_entries_ranking,priority:7"`
	// PhoneNumber is the number exactly as the directory formats it
	PhoneNumber string `gorm:"column:phone_number;not null;type:text"`
	// LookupKey is the stable external identifier of the contact
	LookupKey string `gorm:"column:lookup_key;not null;type:text"`
	// DisplayName is the contact's primary display name
	DisplayName string `gorm:"column:display_name;type:text;index:idx_smartdial_entries_ranking,priority:6"`
	// PhotoRef references the contact photo, empty when there is none
	PhotoRef string `gorm:"column:photo_ref;type:text"`
	// LastTimeUsed is the unix millis timestamp of the last call to this number (0 = never)
	LastTimeUsed int64 `gorm:"column:last_time_used;not null;default:0;index:idx_smartdial_entries_ranking,priority:3"`
	// TimesUsed counts the calls placed to this number
	TimesUsed int `gorm:"column:times_used;not null;default:0;index:idx_smartdial_entries_ranking,priority:4"`
	// Starred marks favorite contacts
	Starred bool `gorm:"column:starred;not null;default:false;index:idx_smartdial_entries_ranking,priority:1"`
	// IsSuperPrimary marks the number chosen as default across all of the contact's accounts
	IsSuperPrimary bool `gorm:"column:is_super_primary;not null;default:false;index:idx_smartdial_entries_ranking,priority:2"`
	// InVisibleGroup marks contacts belonging to a visible contact group
	InVisibleGroup bool `gorm:"column:in_visible_group;not null;default:false;index:idx_smartdial_entries_ranking,priority:5"`
	// IsPrimary marks the contact's primary number
	IsPrimary bool `gorm:"column:is_primary;not null;default:false;index:idx_smartdial_entries_ranking,priority:8"`
	// CarrierPresence is the carrier capability bitmask reported for the number
	CarrierPresence int `gorm:"column:carrier_presence;not null;default:0"`
	// SyncTimestamp is the watermark of the sync pass that wrote the row
	SyncTimestamp int64 `gorm:"column:sync_timestamp;not null;index:idx_smartdial_entries_sync_timestamp"`
}

// TableName specifies the table name for the IndexedEntry model
func (IndexedEntry) TableName() string {
	return "smartdial_entries"
}
