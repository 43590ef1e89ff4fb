package storage

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/versioning"
)

// Postgres is the relational reference adapter (§4.12): one row per
// record, with activation done in one transaction whose two UPDATEs
// demote the old active row and promote the new one.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an already-opened *sql.DB. Schema (for reference):
//
//	CREATE TABLE version_records (
//	  id TEXT PRIMARY KEY,
//	  rule_id TEXT NOT NULL,
//	  version_number INT NOT NULL,
//	  content BYTEA NOT NULL,
//	  content_hash TEXT NOT NULL,
//	  created_by TEXT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL,
//	  status TEXT NOT NULL,
//	  changelog TEXT,
//	  parent_version_id TEXT,
//	  is_rollback BOOLEAN NOT NULL DEFAULT false
//	);
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Save(record *versioning.Record) error {
	_, err := p.db.Exec(`
		INSERT INTO version_records
			(id, rule_id, version_number, content, content_hash, created_by, created_at, status, changelog, parent_version_id, is_rollback)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			changelog = EXCLUDED.changelog,
			is_rollback = EXCLUDED.is_rollback`,
		record.ID, record.RuleID, record.VersionNumber, record.Content, record.ContentHash,
		record.CreatedBy, record.CreatedAt, record.Status, record.Changelog, record.ParentVersionID, record.IsRollback)
	if err != nil {
		return decideerr.Storage("insert version record", err)
	}
	return nil
}

func (p *Postgres) Load(id string) (*versioning.Record, error) {
	row := p.db.QueryRow(`
		SELECT id, rule_id, version_number, content, content_hash, created_by, created_at, status, changelog, parent_version_id, is_rollback
		FROM version_records WHERE id = $1`, id)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, decideerr.VersionNotFound(id)
	}
	if err != nil {
		return nil, decideerr.Storage("load version record", err)
	}
	return record, nil
}

func (p *Postgres) List(ruleID string, limit int) ([]*versioning.Record, error) {
	query := `
		SELECT id, rule_id, version_number, content, content_hash, created_by, created_at, status, changelog, parent_version_id, is_rollback
		FROM version_records WHERE rule_id = $1 ORDER BY version_number ASC`
	args := []interface{}{ruleID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := p.db.Query(query, args...)
	if err != nil {
		return nil, decideerr.Storage("list version records", err)
	}
	defer rows.Close()

	var records []*versioning.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, decideerr.Storage("scan version record", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (p *Postgres) FindActive(ruleID string) (*versioning.Record, error) {
	row := p.db.QueryRow(`
		SELECT id, rule_id, version_number, content, content_hash, created_by, created_at, status, changelog, parent_version_id, is_rollback
		FROM version_records WHERE rule_id = $1 AND status = 'active'
		ORDER BY version_number DESC LIMIT 1`, ruleID)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, decideerr.Storage("find active version", err)
	}
	return record, nil
}

func (p *Postgres) CompareAndSetActive(ruleID, newID string) error {
	tx, err := p.db.Begin()
	if err != nil {
		return decideerr.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE version_records SET status = 'archived' WHERE rule_id = $1 AND status = 'active'`, ruleID); err != nil {
		return decideerr.Storage("demote active version", err)
	}
	res, err := tx.Exec(`UPDATE version_records SET status = 'active' WHERE id = $1 AND rule_id = $2`, newID, ruleID)
	if err != nil {
		return decideerr.Storage("promote new version", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return decideerr.VersionNotFound(newID)
	}

	if err := tx.Commit(); err != nil {
		return decideerr.Storage("commit transaction", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*versioning.Record, error) {
	var r versioning.Record
	var createdAt time.Time
	var changelog, parentID sql.NullString
	if err := row.Scan(&r.ID, &r.RuleID, &r.VersionNumber, &r.Content, &r.ContentHash,
		&r.CreatedBy, &createdAt, &r.Status, &changelog, &parentID, &r.IsRollback); err != nil {
		return nil, err
	}
	r.CreatedAt = createdAt
	r.Changelog = changelog.String
	r.ParentVersionID = parentID.String
	return &r, nil
}
