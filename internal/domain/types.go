package domain

import (
	"fmt"
	"time"
)

// SyncState represents the observable state of the sync engine
type SyncState int32

const (
	SyncStateIdle SyncState = iota
	SyncStateSyncing
)

// String returns the string representation of the sync state
func (s SyncState) String() string {
	switch s {
	case SyncStateIdle:
		return "idle"
	case SyncStateSyncing:
		return "syncing"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// SyncRunStatus represents the outcome of a sync pass
type SyncRunStatus string

const (
	// SyncRunStatusSucceeded indicates the pass completed and advanced the watermark
	SyncRunStatusSucceeded SyncRunStatus = "succeeded"
	// SyncRunStatusAborted indicates the pass stopped before touching the index (directory unavailable)
	SyncRunStatusAborted SyncRunStatus = "aborted"
	// SyncRunStatusFailed indicates a storage failure inside the pass; the watermark was not advanced
	SyncRunStatusFailed SyncRunStatus = "failed"
)

// DeletedContact is a contact deletion reported by the external directory
type DeletedContact struct {
	ContactID int64 `json:"contact_id" yaml:"contact_id"`
	DeletedAt int64 `json:"deleted_at" yaml:"deleted_at"` // unix millis
}

// PhoneRow is one phone number of a contact as projected by the external directory
type PhoneRow struct {
	ContactID       int64  `json:"contact_id" yaml:"contact_id"`
	Number          string `json:"number" yaml:"number"`
	LookupKey       string `json:"lookup_key" yaml:"lookup_key"`
	DisplayName     string `json:"display_name" yaml:"display_name"`
	PhotoRef        string `json:"photo_ref" yaml:"photo_ref"`
	LastUsed        int64  `json:"last_used" yaml:"last_used"` // unix millis, 0 if never used
	UseCount        int    `json:"use_count" yaml:"use_count"`
	Starred         bool   `json:"starred" yaml:"starred"`
	SuperPrimary    bool   `json:"super_primary" yaml:"super_primary"`
	InVisibleGroup  bool   `json:"in_visible_group" yaml:"in_visible_group"`
	IsPrimary       bool   `json:"is_primary" yaml:"is_primary"`
	CarrierPresence int    `json:"carrier_presence" yaml:"carrier_presence"`
}

// ContactMatch identifies a contact for de-duplicating rows of the same contact
type ContactMatch struct {
	LookupKey string
	ContactID int64
}

// Span is a highlight range over the runes of a name or number, end exclusive
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ConfirmedMatch is a lookup result confirmed by the prefix matcher
type ConfirmedMatch struct {
	EntryID         uint64 `json:"entry_id"`
	ContactID       int64  `json:"contact_id"`
	LookupKey       string `json:"lookup_key"`
	DisplayName     string `json:"display_name"`
	PhoneNumber     string `json:"phone_number"`
	PhotoRef        string `json:"photo_ref,omitempty"`
	Starred         bool   `json:"starred"`
	CarrierPresence int    `json:"carrier_presence"`
	NameSpans       []Span `json:"name_spans,omitempty"`
	NumberSpan      *Span  `json:"number_span,omitempty"`
}

// SyncStats counts what a sync pass did to the index
type SyncStats struct {
	DeletedContacts  int `json:"deleted_contacts"`
	UpdatedContacts  int `json:"updated_contacts"`
	PurgedEntries    int `json:"purged_entries"`
	InsertedEntries  int `json:"inserted_entries"`
	InsertedPrefixes int `json:"inserted_prefixes"`
	SkippedRows      int `json:"skipped_rows"`
}

// IndexChanged is emitted once per completed sync pass
type IndexChanged struct {
	EventID   string    `json:"event_id"`
	PassID    string    `json:"pass_id"`
	Watermark int64     `json:"watermark"`
	Timestamp time.Time `json:"timestamp"`
	Stats     SyncStats `json:"stats"`
}

// Millis converts a time to unix milliseconds, the unit used for watermarks and usage timestamps
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
