// Package integrity provides read-only checks over the journal tree:
// content-hash duplicate detection and structural validation. It reports
// problems; it never deletes or rewrites files.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"

	"fjacquet/txn-ledger/internal/journal"
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

// DuplicateGroup lists journal files sharing one content hash.
type DuplicateGroup struct {
	Hash  string   `yaml:"hash" json:"hash"`
	Paths []string `yaml:"paths" json:"paths"`
}

// FindDuplicates hashes every journal file under the ledger root and returns
// one group per hash shared by more than one file, sorted for reproducible
// output.
func FindDuplicates(root string) ([]DuplicateGroup, error) {
	files, err := journal.ListJournalFiles(root)
	if err != nil {
		return nil, err
	}

	byHash := make(map[string][]string)
	for _, path := range files {
		hash, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		byHash[hash] = append(byHash[hash], path)
	}

	var groups []DuplicateGroup
	for hash, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, DuplicateGroup{Hash: hash, Paths: paths})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Hash < groups[j].Hash })

	log.WithFields(logrus.Fields{
		"files":      len(files),
		"duplicates": len(groups),
	}).Debug("Duplicate scan finished")
	return groups, nil
}

// hashFile returns the SHA-256 of the whole file contents as a hex string.
func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ledgererror.FileIntegrityError{Path: path, Reason: "failed to read journal file for hashing", Err: err}
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
