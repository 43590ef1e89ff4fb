package versioning

import (
	"fmt"
	"sync"
	"time"

	"github.com/Mindburn-Labs/helm-decide/pkg/canonicalize"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
)

// Adapter is the subset of storage.Adapter the manager depends on,
// declared locally to avoid an import cycle (storage imports
// versioning for the Record type).
type Adapter interface {
	Save(record *Record) error
	Load(id string) (*Record, error)
	List(ruleID string, limit int) ([]*Record, error)
	FindActive(ruleID string) (*Record, error)
	CompareAndSetActive(ruleID, newID string) error
}

// IDGenerator produces a new unique version id. Tests supply a
// deterministic sequence; production wires google/uuid.
type IDGenerator func() string

// Clock returns the current time; overridable for deterministic tests.
type Clock func() time.Time

// Manager implements the versioning operations of §4.11. All mutating
// operations serialize per rule_id via a per-key mutex.
type Manager struct {
	adapter Adapter
	newID   IDGenerator
	now     Clock

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewManager(adapter Adapter, newID IDGenerator, now Clock) *Manager {
	return &Manager{adapter: adapter, newID: newID, now: now, locks: make(map[string]*sync.Mutex)}
}

func (m *Manager) lockFor(ruleID string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[ruleID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[ruleID] = l
	}
	return l
}

// SaveVersion validates content, assigns the next version_number for
// rule_id, and marks the record active if it is the first-ever
// version, or draft otherwise — unless activateOnSave is set, in which
// case any currently-active record is archived atomically.
func (m *Manager) SaveVersion(ruleID string, content []byte, createdBy, changelog string, activateOnSave bool) (*Record, error) {
	lock := m.lockFor(ruleID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := m.adapter.List(ruleID, 0)
	if err != nil {
		return nil, err
	}

	hash, err := canonicalize.CanonicalHash(content)
	if err != nil {
		return nil, decideerr.Validation("content", fmt.Sprintf("canonicalize: %v", err))
	}

	status := StatusDraft
	if len(existing) == 0 {
		status = StatusActive
	} else if activateOnSave {
		status = StatusActive
	}

	record := &Record{
		ID:            m.newID(),
		RuleID:        ruleID,
		VersionNumber: len(existing) + 1,
		Content:       content,
		ContentHash:   hash,
		CreatedBy:     createdBy,
		CreatedAt:     m.now(),
		Status:        status,
		Changelog:     changelog,
	}

	if status == StatusActive && (len(existing) > 0 || activateOnSave) {
		if err := m.adapter.Save(record); err != nil {
			return nil, err
		}
		if err := m.adapter.CompareAndSetActive(ruleID, record.ID); err != nil {
			return nil, err
		}
		return record, nil
	}

	if err := m.adapter.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (m *Manager) GetVersion(id string) (*Record, error) {
	return m.adapter.Load(id)
}

func (m *Manager) GetVersions(ruleID string, limit int) ([]*Record, error) {
	return m.adapter.List(ruleID, limit)
}

func (m *Manager) GetActiveVersion(ruleID string) (*Record, error) {
	return m.adapter.FindActive(ruleID)
}

// Activate atomically transitions target to active and any current
// active (within the same rule_id) to archived.
func (m *Manager) Activate(ruleID, versionID string) error {
	lock := m.lockFor(ruleID)
	lock.Lock()
	defer lock.Unlock()
	return m.adapter.CompareAndSetActive(ruleID, versionID)
}

// Rollback is semantically equivalent to Activate; it additionally
// labels the reactivated record as a rollback for audit purposes.
func (m *Manager) Rollback(ruleID, versionID string) error {
	lock := m.lockFor(ruleID)
	lock.Lock()
	defer lock.Unlock()

	record, err := m.adapter.Load(versionID)
	if err != nil {
		return err
	}
	record.IsRollback = true
	if err := m.adapter.Save(record); err != nil {
		return err
	}
	return m.adapter.CompareAndSetActive(ruleID, versionID)
}

func (m *Manager) GetHistory(ruleID string) (*History, error) {
	records, err := m.adapter.List(ruleID, 0)
	if err != nil {
		return nil, err
	}
	history := &History{RuleID: ruleID, TotalVersions: len(records)}
	if len(records) == 0 {
		return history, nil
	}

	earliest, latest := records[0].CreatedAt, records[0].CreatedAt
	for _, r := range records {
		if r.CreatedAt.Before(earliest) {
			earliest = r.CreatedAt
		}
		if r.CreatedAt.After(latest) {
			latest = r.CreatedAt
		}
		if r.Status == StatusActive {
			history.ActiveID = r.ID
		}
	}
	history.CreatedAt = &earliest
	history.UpdatedAt = &latest
	return history, nil
}
