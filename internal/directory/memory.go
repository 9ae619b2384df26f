package directory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// Operation names a Memory directory query for failure injection
type Operation string

const (
	OpNow               Operation = "now"
	OpDeletedContacts   Operation = "deleted_contacts"
	OpUpdatedContactIDs Operation = "updated_contact_ids"
	OpUpdatedPhoneRows  Operation = "updated_phone_rows"
)

// DEFAULT_MEMORY_PAGE_SIZE is the page size of Memory result sets
const DEFAULT_MEMORY_PAGE_SIZE = 100

// Phone is a phone number of a Memory contact
type Phone struct {
	Number          string `yaml:"number"`
	LastUsed        int64  `yaml:"last_used"`
	UseCount        int    `yaml:"use_count"`
	SuperPrimary    bool   `yaml:"super_primary"`
	IsPrimary       bool   `yaml:"is_primary"`
	CarrierPresence int    `yaml:"carrier_presence"`
}

// Contact is a contact held by a Memory directory
type Contact struct {
	ID             int64   `yaml:"id"`
	LookupKey      string  `yaml:"lookup_key"`
	DisplayName    string  `yaml:"display_name"`
	PhotoRef       string  `yaml:"photo_ref"`
	Starred        bool    `yaml:"starred"`
	InVisibleGroup bool    `yaml:"in_visible_group"`
	Phones         []Phone `yaml:"phones"`
}

// Fixture is the YAML document loaded by LoadFixture
type Fixture struct {
	Contacts []Contact `yaml:"contacts"`
}

type memoryContact struct {
	contact   Contact
	updatedAt int64
}

// Memory is a mutable in-memory directory. Its clock is logical: every
// mutation advances it by one millisecond, so a change made after Now is
// always strictly newer than the time Now returned.
type Memory struct {
	mu                sync.Mutex
	now               int64
	pageSize          int
	contacts          map[int64]*memoryContact
	deleted           []domain.DeletedContact
	failures          map[Operation]error
	iterationFailures map[Operation]error
}

// MemoryOption configures a Memory directory
type MemoryOption func(*Memory)

// WithPageSize sets the page size of returned result sets
func WithPageSize(pageSize int) MemoryOption {
	return func(m *Memory) {
		m.pageSize = pageSize
	}
}

// WithStartTime sets the initial value of the directory clock
func WithStartTime(millis int64) MemoryOption {
	return func(m *Memory) {
		m.now = millis
	}
}

// NewMemory creates an empty in-memory directory
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		now:               1,
		pageSize:          DEFAULT_MEMORY_PAGE_SIZE,
		contacts:          make(map[int64]*memoryContact),
		failures:          make(map[Operation]error),
		iterationFailures: make(map[Operation]error),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadFixture reads a YAML fixture and upserts every contact it lists
func (m *Memory) LoadFixture(r io.Reader) error {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode directory fixture: %w", err)
	}

	for _, c := range fixture.Contacts {
		if c.ID == 0 {
			return fmt.Errorf("fixture contact %q has no id", c.DisplayName)
		}
		m.UpsertContact(c)
	}
	return nil
}

// LoadFixtureFile reads a YAML fixture file
func (m *Memory) LoadFixtureFile(path string) error {
	f, err := os.Open(path) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to open directory fixture: %w", err)
	}
	defer f.Close()

	return m.LoadFixture(f)
}

// tick advances the logical clock; callers hold mu
func (m *Memory) tick() int64 {
	m.now++
	return m.now
}

// UpsertContact creates or replaces a contact and marks it modified
func (m *Memory) UpsertContact(c Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.Phones = slices.Clone(c.Phones)
	m.contacts[c.ID] = &memoryContact{contact: c, updatedAt: m.tick()}
}

// DeleteContact removes a contact and records its deletion.
// It returns false when the contact does not exist.
func (m *Memory) DeleteContact(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contacts[id]; !ok {
		return false
	}
	delete(m.contacts, id)
	m.deleted = append(m.deleted, domain.DeletedContact{ContactID: id, DeletedAt: m.tick()})
	return true
}

// RecordCall registers a call to one of a contact's numbers at the given
// unix millis time and marks the contact modified.
func (m *Memory) RecordCall(contactID int64, number string, at int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mc, ok := m.contacts[contactID]
	if !ok {
		return fmt.Errorf("contact %d not found", contactID)
	}
	for i := range mc.contact.Phones {
		if mc.contact.Phones[i].Number == number {
			mc.contact.Phones[i].UseCount++
			mc.contact.Phones[i].LastUsed = at
			mc.updatedAt = m.tick()
			return nil
		}
	}
	return fmt.Errorf("contact %d has no number %s", contactID, number)
}

// Contact returns a copy of a contact
func (m *Memory) Contact(id int64) (Contact, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mc, ok := m.contacts[id]
	if !ok {
		return Contact{}, false
	}
	c := mc.contact
	c.Phones = slices.Clone(c.Phones)
	return c, true
}

// SetFailure makes op fail with err when it is opened. A nil err clears the failure.
func (m *Memory) SetFailure(op Operation, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// SetIterationFailure makes the result set of op fail with err after its first page.
// A nil err clears the failure.
func (m *Memory) SetIterationFailure(op Operation, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.iterationFailures, op)
		return
	}
	m.iterationFailures[op] = err
}

// Now returns the current value of the logical clock
func (m *Memory) Now(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[OpNow]; err != nil {
		return 0, err
	}
	return m.now, nil
}

// DeletedContacts returns the deletions recorded after since
func (m *Memory) DeletedContacts(ctx context.Context, since int64) (ResultSet[domain.DeletedContact], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[OpDeletedContacts]; err != nil {
		return nil, err
	}

	var items []domain.DeletedContact
	for _, d := range m.deleted {
		if d.DeletedAt > since {
			items = append(items, d)
		}
	}
	return newMemoryResultSet(items, m.pageSize, m.iterationFailures[OpDeletedContacts]), nil
}

// UpdatedContactIDs returns the ids of the contacts modified after since, ascending
func (m *Memory) UpdatedContactIDs(ctx context.Context, since int64) (ResultSet[int64], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[OpUpdatedContactIDs]; err != nil {
		return nil, err
	}

	var items []int64
	for _, mc := range m.updatedSince(since) {
		items = append(items, mc.contact.ID)
	}
	return newMemoryResultSet(items, m.pageSize, m.iterationFailures[OpUpdatedContactIDs]), nil
}

// UpdatedPhoneRows projects every phone number of the contacts modified after since
func (m *Memory) UpdatedPhoneRows(ctx context.Context, since int64) (ResultSet[domain.PhoneRow], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[OpUpdatedPhoneRows]; err != nil {
		return nil, err
	}

	var items []domain.PhoneRow
	for _, mc := range m.updatedSince(since) {
		c := mc.contact
		for _, p := range c.Phones {
			items = append(items, domain.PhoneRow{
				ContactID:       c.ID,
				Number:          p.Number,
				LookupKey:       c.LookupKey,
				DisplayName:     c.DisplayName,
				PhotoRef:        c.PhotoRef,
				LastUsed:        p.LastUsed,
				UseCount:        p.UseCount,
				Starred:         c.Starred,
				SuperPrimary:    p.SuperPrimary,
				InVisibleGroup:  c.InVisibleGroup,
				IsPrimary:       p.IsPrimary,
				CarrierPresence: p.CarrierPresence,
			})
		}
	}
	return newMemoryResultSet(items, m.pageSize, m.iterationFailures[OpUpdatedPhoneRows]), nil
}

// updatedSince returns the contacts modified after since ordered by id; callers hold mu
func (m *Memory) updatedSince(since int64) []*memoryContact {
	var updated []*memoryContact
	for _, mc := range m.contacts {
		if mc.updatedAt > since {
			updated = append(updated, mc)
		}
	}
	slices.SortFunc(updated, func(a, b *memoryContact) int {
		return cmp.Compare(a.contact.ID, b.contact.ID)
	})
	return updated
}

func newMemoryResultSet[T any](items []T, pageSize int, failure error) ResultSet[T] {
	rs := NewSliceResultSet(items, pageSize)
	if failure == nil {
		return rs
	}
	return &failingResultSet[T]{ResultSet: rs, failure: failure}
}

// failingResultSet serves the first page of a result set and then fails
type failingResultSet[T any] struct {
	ResultSet[T]
	failure error
	pages   int
	err     error
}

func (r *failingResultSet[T]) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if r.pages >= 1 {
		r.err = r.failure
		return false
	}
	r.pages++
	return r.ResultSet.Next(ctx)
}

func (r *failingResultSet[T]) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.ResultSet.Err()
}
