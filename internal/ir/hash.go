package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTranslation = "bfc/translation/v1"
	DomainSource      = "bfc/source/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// translationKey is the hashed identity of one translation request.
// Field order is fixed by the struct, so the JSON encoding is stable.
type translationKey struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	InitialCells *int   `json:"initial_cells"`
	Format       string `json:"format"`
}

// SourceHash identifies a source file's content independent of any options.
func SourceHash(source []byte) string {
	return hashWithDomain(DomainSource, source)
}

// TranslationKey computes the cache key for translating source to target.
// A nil initialCells (estimate from '>' count) and an explicit value are distinct keys.
func TranslationKey(source []byte, target string, initialCells *int) (string, error) {
	data, err := json.Marshal(translationKey{
		Source:       SourceHash(source),
		Target:       target,
		InitialCells: initialCells,
		Format:       FormatVersion,
	})
	if err != nil {
		return "", fmt.Errorf("TranslationKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTranslation, data), nil
}

// MustTranslationKey is like TranslationKey but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTranslationKey(source []byte, target string, initialCells *int) string {
	key, err := TranslationKey(source, target, initialCells)
	if err != nil {
		panic(err)
	}
	return key
}
