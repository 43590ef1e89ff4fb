// Package storage implements the versioning manager's storage.Adapter
// contract (§4.12) with two reference back-ends: a file-tree adapter
// and a relational (Postgres) adapter.
package storage

import "github.com/Mindburn-Labs/helm-decide/pkg/versioning"

// Adapter is the persistence contract consumed by the versioning
// manager (§4.11, §4.12).
type Adapter interface {
	Save(record *versioning.Record) error
	Load(id string) (*versioning.Record, error)
	List(ruleID string, limit int) ([]*versioning.Record, error)
	FindActive(ruleID string) (*versioning.Record, error)

	// CompareAndSetActive atomically promotes newID to active and
	// demotes the rule_id's current active record (if any) to
	// archived. Implementations must make this atomic within their
	// own consistency model (file lock, SQL transaction).
	CompareAndSetActive(ruleID, newID string) error
}
