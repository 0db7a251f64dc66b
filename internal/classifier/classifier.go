// Package classifier combines exact-match overrides, ordered pattern rules
// and an optional AI fallback to assign account categories to transactions,
// and ingests free-text feedback that durably corrects the rule set.
package classifier

import (
	"context"
	"sync"

	"fjacquet/txn-ledger/internal/matcher"
	"fjacquet/txn-ledger/internal/models"
	"fjacquet/txn-ledger/internal/rules"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Classifier holds a loaded rule document and the store it persists to.
// Overrides always take precedence over patterns; patterns are evaluated in
// document order.
type Classifier struct {
	doc   *rules.Document
	store *rules.Store
	ai    AIClient

	mu         sync.RWMutex
	dirty      bool
	autoLearn  bool
	autoCreate bool
}

// New creates a Classifier over a loaded rule document. The AI client may be
// nil, in which case unmatched transactions stay uncategorized.
func New(doc *rules.Document, store *rules.Store, ai AIClient) *Classifier {
	return &Classifier{
		doc:   doc,
		store: store,
		ai:    ai,
	}
}

// SetAutoLearn controls whether pattern and AI hits are persisted back as
// overrides for faster, exact classification next time.
func (c *Classifier) SetAutoLearn(enabled bool) {
	c.autoLearn = enabled
}

// SetAutoCreate controls whether feedback may introduce categories that are
// not yet part of the rule document.
func (c *Classifier) SetAutoCreate(enabled bool) {
	c.autoCreate = enabled
}

// Rules exposes the in-memory rule document, primarily for the account
// directive generator.
func (c *Classifier) Rules() *rules.Document {
	return c.doc
}

// Classify assigns a category to a transaction. For a fixed rule document
// the override and pattern paths are a pure function of the description;
// unmatched transactions come back uncategorized rather than failing the
// batch.
func (c *Classifier) Classify(tx models.Transaction) models.ClassifiedTransaction {
	c.mu.RLock()
	category, found := c.doc.LookupOverride(tx.Description)
	c.mu.RUnlock()
	if found {
		return models.ClassifiedTransaction{
			Transaction: tx,
			Category:    category,
			Confidence:  models.ConfidenceOverride,
		}
	}

	if category, found := matcher.Match(tx.Description, c.doc.Patterns); found {
		if c.autoLearn {
			c.learnOverride(tx.Description, category)
		}
		return models.ClassifiedTransaction{
			Transaction: tx,
			Category:    category,
			Confidence:  models.ConfidencePattern,
		}
	}

	if category, ok := c.classifyWithAI(tx); ok {
		if c.autoLearn {
			c.learnOverride(tx.Description, category)
		}
		return models.ClassifiedTransaction{
			Transaction: tx,
			Category:    category,
			Confidence:  models.ConfidencePattern,
		}
	}

	return models.ClassifiedTransaction{
		Transaction: tx,
		Category:    models.CategoryUncategorized,
		Confidence:  models.ConfidenceUnclassified,
	}
}

// classifyWithAI consults the optional network-backed source. Connection
// errors are logged and degrade to uncategorized; they never fail the batch.
// A category the rule document does not know is discarded.
func (c *Classifier) classifyWithAI(tx models.Transaction) (string, bool) {
	if c.ai == nil {
		return "", false
	}

	category, err := c.ai.Categorize(context.Background(), tx)
	if err != nil {
		log.WithError(err).WithField("description", tx.Description).Warn("AI categorization failed")
		return "", false
	}
	if category == "" || !c.doc.HasCategory(category) {
		log.WithFields(logrus.Fields{
			"description": tx.Description,
			"category":    category,
		}).Debug("Discarding AI category not present in rule document")
		return "", false
	}
	return category, true
}

// learnOverride records a description→category override in memory and marks
// the document dirty for the next Persist.
func (c *Classifier) learnOverride(description, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.SetOverride(description, category)
	c.dirty = true
	log.WithFields(logrus.Fields{
		"description": models.NormalizeDescription(description),
		"category":    category,
	}).Debug("Learned override mapping")
}

// Persist writes the rule document through the store if it has been modified
// since the last save.
func (c *Classifier) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := c.store.Save(c.doc); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
