// Package advisory holds the two in-race guidance engines. Both are pure
// first-matching-rule-wins evaluators over an ordered rule table; they keep
// no state between invocations and are safe to re-run on every tick.
package advisory

// Severity grades how urgently the advice should be surfaced.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Advice is one engine verdict. Rule names which table entry matched, so the
// ordering contract stays auditable from the outside.
type Advice struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
