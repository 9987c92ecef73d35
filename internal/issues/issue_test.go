package issues

import (
	"fmt"
	"sync"
	"testing"

	"github.com/erraggy/oasir/internal/severity"
	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	tests := []struct {
		name        string
		issue       Issue
		contains    []string
		notContains []string
	}{
		{
			name: "warning with field",
			issue: Issue{
				Path:     "#/components/schemas/Pet",
				Field:    "required",
				Message:  `dropped "ghost": no such property`,
				Severity: severity.SeverityWarning,
			},
			contains:    []string{"⚠", "#/components/schemas/Pet.required", "ghost"},
			notContains: []string{"line"},
		},
		{
			name: "info with location",
			issue: Issue{
				Path:     "operations.getThing",
				Message:  "operation parameter overrides path parameter",
				Severity: severity.SeverityInfo,
				Line:     12,
				Column:   5,
			},
			contains: []string{"ℹ", "(line 12, col 5)"},
		},
		{
			name:     "unknown severity",
			issue:    Issue{Path: "x", Message: "y", Severity: severity.Severity(42)},
			contains: []string{"?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.issue.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestIssueLocation(t *testing.T) {
	assert.Equal(t, "#/a", Issue{Path: "#/a"}.Location())
	assert.Equal(t, "3:4", Issue{Line: 3, Column: 4}.Location())
	assert.Equal(t, "other.yaml:3:4", Issue{File: "other.yaml", Line: 3, Column: 4}.Location())
	assert.True(t, Issue{Line: 1}.HasLocation())
	assert.False(t, Issue{}.HasLocation())
}

func TestCollectorConcurrent(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				c.Warn(fmt.Sprintf("p%d", i), "items", "missing items", nil)
			} else {
				c.Info(fmt.Sprintf("p%d", i), "", "note")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	assert.Equal(t, 25, c.Count(severity.SeverityWarning))
	assert.Equal(t, 25, c.Count(severity.SeverityInfo))

	got := c.Issues()
	got[0].Path = "mutated"
	assert.NotEqual(t, "mutated", c.Issues()[0].Path, "Issues must return a copy")
}
