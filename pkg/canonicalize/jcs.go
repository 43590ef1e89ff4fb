// Package canonicalize provides RFC 8785 (JSON Canonicalization Scheme)
// compliant serialization for deterministic hashing of HELM artifacts:
// rule documents, evaluator signatures, and decision contexts.
package canonicalize

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	dctx "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

// JCS returns the RFC 8785 canonical JSON representation of v.
//
// Key features:
// 1. Map keys are sorted lexicographically by UTF-8 bytes.
// 2. HTML escaping is DISABLED (unlike standard json.Marshal).
// 3. Numbers are preserved exactly if passed as json.Number, otherwise standard formatting.
//
// v is first round-tripped through encoding/json so struct tags and
// omitempty are honored before the tree is re-walked in sorted-key
// order. A decision context held as dctx.Context.Raw() is already
// typed to exactly the shapes canonicalTree understands, so hashing
// one goes through ContextBytes instead and skips this round trip.
func JCS(v interface{}) ([]byte, error) {
	intermediate, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("jcs: pre-marshal failed: %w", err)
	}

	var generic interface{}
	decoder := json.NewDecoder(bytes.NewReader(intermediate))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return nil, fmt.Errorf("jcs: intermediate decode failed: %w", err)
	}

	return canonicalTree(generic)
}

// ContextBytes returns the canonical byte form of a frozen decision
// context (dctx.Context.Raw()) directly, bypassing the json.Marshal /
// UseNumber-decode round trip JCS needs for arbitrary Go values.
// context.freeze already normalized every number to float64 and
// rejected anything canonicalTree wouldn't understand, so there is
// nothing left to reparse here — this is the path exercised on every
// Decide() call via audit.ContextHash.
func ContextBytes(raw map[string]dctx.Value) ([]byte, error) {
	return canonicalTree(raw)
}

// ContextHash is the SHA-256 hex digest of ContextBytes(raw).
func ContextHash(raw map[string]dctx.Value) (string, error) {
	b, err := ContextBytes(raw)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// CanonicalHash returns the SHA-256 hex digest of the canonical JSON representation of v.
func CanonicalHash(v interface{}) (string, error) {
	b, err := JCS(v)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

// HashBytes computes SHA-256 hash of raw bytes and returns hex string
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// JCSString returns the JCS canonical form as a string
func JCSString(v interface{}) (string, error) {
	data, err := JCS(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// canonicalTree walks a tree of dctx.Value-shaped nodes (nil, bool,
// string, a number, []dctx.Value, map[string]dctx.Value) and writes
// its RFC 8785 canonical encoding. JCS feeds it the output of a
// json.Number-preserving decode; ContextBytes feeds it a frozen
// Context tree directly — the two callers differ only in how numbers
// arrive (json.Number vs float64), both handled below since
// dctx.Value is a plain alias for interface{} and carries no type
// identity of its own to switch on.
func canonicalTree(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // RFC 8785 forbids HTML escaping

	switch t := v.(type) {
	case nil:
		return []byte("null"), nil
	case bool:
		if t {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case json.Number:
		return []byte(t.String()), nil
	case float64:
		// context.freeze normalizes every numeric kind to float64 before
		// a Context is ever built, so ContextBytes always lands here
		// rather than in the json.Number branch above.
		if err := enc.Encode(t); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
	case string:
		if err := enc.Encode(t); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
	case []interface{}: // identical type to []dctx.Value
		buf.Reset()
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := canonicalTree(elem)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]interface{}: // identical type to map[string]dctx.Value
		buf.Reset()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := canonicalTree(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')

			vb, err := canonicalTree(t[k])
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
	}
}
