package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
)

// File persists one JSON file per record under
// storage_path/rule_id/<version_id>.json (§4.12). Mutating operations
// acquire an exclusive lock on storage_path/rule_id/.lock for the
// duration of the read-modify-write, via lockFile.
type File struct {
	root string
}

func NewFile(root string) *File {
	return &File{root: root}
}

func (f *File) ruleDir(ruleID string) string {
	return filepath.Join(f.root, sanitize(ruleID))
}

func (f *File) recordPath(ruleID, id string) string {
	return filepath.Join(f.ruleDir(ruleID), sanitize(id)+".json")
}

func (f *File) Save(record *versioning.Record) error {
	unlock, err := lockFile(f.ruleDir(record.RuleID))
	if err != nil {
		return decideerr.Storage("acquire lock", err)
	}
	defer unlock()

	if err := os.MkdirAll(f.ruleDir(record.RuleID), 0o755); err != nil {
		return decideerr.Storage("create rule directory", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return decideerr.Storage("marshal record", err)
	}
	if err := os.WriteFile(f.recordPath(record.RuleID, record.ID), data, 0o644); err != nil {
		return decideerr.Storage("write record", err)
	}
	return nil
}

func (f *File) Load(id string) (*versioning.Record, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, decideerr.Storage("read storage root", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(f.root, e.Name(), sanitize(id)+".json")
		if data, err := os.ReadFile(path); err == nil {
			var record versioning.Record
			if err := json.Unmarshal(data, &record); err != nil {
				return nil, decideerr.Storage("decode record", err)
			}
			return &record, nil
		}
	}
	return nil, decideerr.VersionNotFound(id)
}

func (f *File) List(ruleID string, limit int) ([]*versioning.Record, error) {
	entries, err := os.ReadDir(f.ruleDir(ruleID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, decideerr.Storage("read rule directory", err)
	}

	var records []*versioning.Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.ruleDir(ruleID), e.Name()))
		if err != nil {
			continue
		}
		var record versioning.Record
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].VersionNumber < records[j].VersionNumber
	})

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// FindActive scans the rule's records for the active one, recovering
// from a crash between the two writes in CompareAndSetActive per
// §4.11: "no active or two active" is resolved by the highest
// version_number with the active flag winning, siblings archived.
func (f *File) FindActive(ruleID string) (*versioning.Record, error) {
	records, err := f.List(ruleID, 0)
	if err != nil {
		return nil, err
	}

	var actives []*versioning.Record
	for _, r := range records {
		if r.Status == versioning.StatusActive {
			actives = append(actives, r)
		}
	}
	if len(actives) == 0 {
		return nil, nil
	}
	if len(actives) == 1 {
		return actives[0], nil
	}

	sort.Slice(actives, func(i, j int) bool { return actives[i].VersionNumber > actives[j].VersionNumber })
	winner := actives[0]
	for _, loser := range actives[1:] {
		loser.Status = versioning.StatusArchived
		if err := f.Save(loser); err != nil {
			return nil, err
		}
	}
	return winner, nil
}

func (f *File) CompareAndSetActive(ruleID, newID string) error {
	unlock, err := lockFile(f.ruleDir(ruleID))
	if err != nil {
		return decideerr.Storage("acquire lock", err)
	}
	defer unlock()

	write := func(r *versioning.Record) error {
		data, _ := json.MarshalIndent(r, "", "  ")
		return os.WriteFile(f.recordPath(r.RuleID, r.ID), data, 0o644)
	}

	newRecord, err := f.Load(newID)
	if err != nil {
		return err
	}

	records, err := f.List(ruleID, 0)
	if err != nil {
		return err
	}

	newRecord.Status = versioning.StatusActive
	if err := write(newRecord); err != nil {
		return err
	}

	for _, current := range records {
		if current.Status == versioning.StatusActive && current.ID != newRecord.ID {
			current.Status = versioning.StatusArchived
			if err := write(current); err != nil {
				return err
			}
		}
	}
	return nil
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}

// lockFile implements a simple advisory, filesystem-based mutex via
// exclusive-create on a sibling .lock file — a cross-process stand-in
// for the "exclusive file lock" called for by §4.12. It spins with a
// short sleep rather than blocking indefinitely, since the lock is
// only ever held for the duration of one read-modify-write.
func lockFile(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(dir, ".lock")

	deadline := time.Now().Add(5 * time.Second)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("storage: timed out acquiring lock %s", lockPath)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
