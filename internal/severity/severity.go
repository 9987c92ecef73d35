// Package severity provides the levels attached to compiler diagnostics.
//
// Fatal conditions are errors (see oaserrors) and never surface as a
// diagnostic. The levels here grade recoverable anomalies only:
//   - SeverityInfo: a notice about a choice the compiler made
//   - SeverityWarning: source content was dropped or replaced with a default
package severity

// Severity grades a diagnostic.
type Severity int

const (
	// SeverityWarning marks source content that was ignored, dropped or
	// substituted (a required name without a property, an array without items).
	SeverityWarning Severity = iota

	// SeverityInfo marks a non-actionable notice, such as an operation-level
	// parameter overriding a path-level one.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level by name so JSON and YAML output stays readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
