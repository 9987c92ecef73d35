package issues

import (
	"slices"
	"sync"

	"github.com/erraggy/oasir/internal/severity"
)

// Collector accumulates issues from concurrent passes.
// The zero value is ready to use.
type Collector struct {
	mu     sync.Mutex
	issues []Issue
}

// Add appends an issue.
func (c *Collector) Add(issue Issue) {
	c.mu.Lock()
	c.issues = append(c.issues, issue)
	c.mu.Unlock()
}

// Warn appends a warning for path with the given field.
func (c *Collector) Warn(path, field, message string, value any) {
	c.Add(Issue{Path: path, Field: field, Message: message, Severity: severity.SeverityWarning, Value: value})
}

// Info appends an informational notice.
func (c *Collector) Info(path, field, message string) {
	c.Add(Issue{Path: path, Field: field, Message: message, Severity: severity.SeverityInfo})
}

// Len returns the number of collected issues.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

// Issues returns a copy of the collected issues in insertion order.
func (c *Collector) Issues() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.issues)
}

// Count returns how many collected issues have the given severity.
func (c *Collector) Count(s severity.Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, i := range c.issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}
