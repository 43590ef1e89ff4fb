package rules

import (
	"encoding/json"
	"fmt"

	"github.com/Mindburn-Labs/helm-decide/pkg/canonicalize"
	"github.com/Mindburn-Labs/helm-decide/pkg/decideerr"
	"github.com/Mindburn-Labs/helm-decide/pkg/rules/schema"
)

// Document is a parsed, validated, canonicalized rule document ready
// for downstream evaluation or versioning (§4.3). CanonicalBytes is
// what the audit layer hashes for ruleset_hash.
type Document struct {
	Ruleset        Ruleset
	CanonicalBytes []byte
	ContentHash    string
}

// Parse validates data against the schema pass, decodes it into a
// typed Ruleset, and canonicalizes it (key order normalized, redundant
// whitespace removed) via JCS — the canonical bytes are what downstream
// consumers (versioning, audit) hash and store.
//
// Every violation is collected and returned together rather than
// failing fast on the first, so a caller can report them all.
func Parse(data []byte) (*Document, []*decideerr.Error) {
	if errs := schema.Validate(data); len(errs) > 0 {
		return nil, errs
	}

	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, []*decideerr.Error{decideerr.Validation("", fmt.Sprintf("decode: %v", err))}
	}

	if dupErrs := checkDuplicateIDs(rs); len(dupErrs) > 0 {
		return nil, dupErrs
	}

	canonical, err := canonicalize.JCS(rs)
	if err != nil {
		return nil, []*decideerr.Error{decideerr.Validation("", fmt.Sprintf("canonicalize: %v", err))}
	}

	return &Document{
		Ruleset:        rs,
		CanonicalBytes: canonical,
		ContentHash:    canonicalize.HashBytes(canonical),
	}, nil
}

// checkDuplicateIDs is a second guard against duplicate rule ids after
// typed decoding, since the schema package's pass operates on the raw
// decoded map and could in principle diverge from struct tags.
func checkDuplicateIDs(rs Ruleset) []*decideerr.Error {
	seen := make(map[string]bool, len(rs.Rules))
	var errs []*decideerr.Error
	for i, r := range rs.Rules {
		if seen[r.ID] {
			errs = append(errs, decideerr.Validation(fmt.Sprintf("rules[%d].id", i), fmt.Sprintf("duplicate rule id %q", r.ID)))
			continue
		}
		seen[r.ID] = true
	}
	return errs
}
