package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/txn-ledger/internal/ledgererror"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store reads and writes the rule document at a fixed path. Writes are
// atomic: the document is written to a sibling temp file and renamed over
// the target, so the on-disk file is always syntactically complete even if
// the process is killed mid-write.
type Store struct {
	Path string
}

// NewStore creates a store for the rule file at the given path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads, validates and compiles the rule document. A missing file or a
// structurally invalid document is reported as a FileIntegrityError; the
// caller decides whether a missing file is fatal or a bootstrap condition.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file not found", Err: err}
		}
		return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file unreadable", Err: err}
	}

	// Check required top-level keys before decoding into the typed struct so
	// a document missing a key is rejected rather than silently defaulted.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file is not valid JSON", Err: err}
	}
	for _, key := range []string{"categories", "patterns", "overrides"} {
		if _, ok := raw[key]; !ok {
			return nil, &ledgererror.FileIntegrityError{
				Path:   s.Path,
				Reason: fmt.Sprintf("rule file missing required key '%s'", key),
			}
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file has mistyped keys", Err: err}
	}
	if doc.Overrides == nil {
		doc.Overrides = map[string]string{}
	}

	if err := doc.Compile(); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file contains an invalid pattern", Err: err}
	}
	if err := doc.Validate(); err != nil {
		return nil, &ledgererror.FileIntegrityError{Path: s.Path, Reason: "rule file is inconsistent", Err: err}
	}

	log.WithFields(logrus.Fields{
		"categories": len(doc.Categories),
		"patterns":   len(doc.Patterns),
		"overrides":  len(doc.Overrides),
	}).Debug("Loaded rule document")
	return &doc, nil
}

// LoadOrInit loads the rule document, starting from an empty document when
// the file does not exist yet. Any other load failure is passed through.
func (s *Store) LoadOrInit() (*Document, error) {
	doc, err := s.Load()
	if err != nil {
		var ferr *ledgererror.FileIntegrityError
		if errors.As(err, &ferr) && os.IsNotExist(ferr.Err) {
			log.WithField("path", s.Path).Info("Rule file not found, starting with empty rules")
			return NewDocument(), nil
		}
		return nil, err
	}
	return doc, nil
}

// Save persists the document atomically. The document is validated before
// writing so an inconsistent rule set never reaches disk.
func (s *Store) Save(doc *Document) error {
	if err := doc.Validate(); err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "refusing to save inconsistent rules", Err: err}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to encode rules", Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to create rules directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to create temp file", Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		// Best effort cleanup; after a successful rename the file is gone.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to write temp file", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to sync temp file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to close temp file", Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to set permissions", Err: err}
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return &ledgererror.FileIntegrityError{Path: s.Path, Reason: "failed to replace rule file", Err: err}
	}

	log.WithField("path", s.Path).Debug("Saved rule document")
	return nil
}
