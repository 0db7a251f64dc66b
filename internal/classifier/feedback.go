package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/txn-ledger/internal/ledgererror"

	"github.com/sirupsen/logrus"
)

// Feedback grammar: "<description> should be <category>" in free text, or
// the shorthand "<description> -> <category>".
var (
	shouldBePattern  = regexp.MustCompile(`(?i)^(.+?)\s+should\s+be\s+([A-Za-z0-9:_\- ]+)$`)
	shorthandPattern = regexp.MustCompile(`^(.+?)\s*(?:->|=>)\s*([A-Za-z0-9:_\- ]+)$`)
)

// Corrector re-books previously written journal entries for a description
// onto a new category account, append-only. Implemented by journal.Writer.
type Corrector interface {
	Correct(description, category, defaultAccount string) (int, error)
}

// ParseFeedback extracts the description excerpt and target category from a
// line of feedback text.
func ParseFeedback(text string) (description, category string, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", &ledgererror.ClassificationError{Reason: "empty feedback text"}
	}

	for _, re := range []*regexp.Regexp{shouldBePattern, shorthandPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), nil
		}
	}

	return "", "", &ledgererror.ClassificationError{
		Description: text,
		Reason:      "feedback must look like '<description> should be <category>'",
	}
}

// ProcessFeedback applies one piece of user feedback: it validates the
// target category, records the override, asks the corrector to re-book any
// matching journal entries (reversal plus corrected entry), and persists the
// updated rules. The rule file is written at most once per call, and only
// after every other step succeeded.
func (c *Classifier) ProcessFeedback(text string, corrector Corrector, defaultAccount string) error {
	description, category, err := ParseFeedback(text)
	if err != nil {
		return err
	}

	if !c.doc.HasCategory(category) {
		if !c.autoCreate {
			return &ledgererror.ClassificationError{
				Description: description,
				Reason:      fmt.Sprintf("unknown category '%s' and auto-creation is disabled", category),
			}
		}
		c.mu.Lock()
		c.doc.AddCategory(category)
		c.mu.Unlock()
		log.WithField("category", category).Info("Created new category from feedback")
	}

	c.learnOverride(description, category)

	if corrector != nil {
		corrected, err := corrector.Correct(description, category, defaultAccount)
		if err != nil {
			return err
		}
		if corrected > 0 {
			log.WithFields(logrus.Fields{
				"description": description,
				"category":    category,
				"entries":     corrected,
			}).Info("Re-booked journal entries from feedback")
		}
	}

	if err := c.Persist(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"description": description,
		"category":    category,
	}).Info("Feedback applied")
	return nil
}
