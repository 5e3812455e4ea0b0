package policy

import (
	"errors"
	"fmt"
	"math"
)

// Severity classifies a violation.
type Severity string

const (
	// SeverityCritical is raised when a value falls below the lower bound.
	SeverityCritical Severity = "critical"
	// SeverityOutOfRange is raised when a value exceeds the upper bound.
	SeverityOutOfRange Severity = "out_of_range"
	// SeverityLow is raised by the built-in low-level supplementary checks.
	SeverityLow Severity = "low"
)

// Names of the base range checks, reported in Violation.Check.
const (
	CheckBelowRange = "below_range"
	CheckAboveRange = "above_range"
)

// ErrInvalidRange is returned when a range's lower bound exceeds its upper bound.
var ErrInvalidRange = errors.New("invalid range")

// Range is a closed safe interval. Values equal to a bound are in range.
type Range struct {
	Min float64
	Max float64
}

// Validate returns ErrInvalidRange if Min > Max or either bound is NaN.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		return fmt.Errorf("%w: min %s, max %s",
			ErrInvalidRange, formatValue(r.Min), formatValue(r.Max))
	}
	return nil
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Check is a supplementary predicate evaluated after the base range check.
type Check struct {
	// Name identifies the check in alerts and logs, e.g. "low_pressure".
	Name string

	// Condition fires the check when it holds for the new value.
	Condition Condition

	// Severity is attached to the resulting violation.
	Severity Severity

	// Template is either a built-in template name (see message.go) or a
	// literal template containing {category} and {value} placeholders.
	Template string
}

// NewCheck parses expr and builds a Check.
func NewCheck(name, expr string, sev Severity, tmpl string) (Check, error) {
	cond, err := ParseCondition(expr)
	if err != nil {
		return Check{}, fmt.Errorf("check %q: %w", name, err)
	}
	if sev == "" {
		sev = SeverityLow
	}
	if tmpl == "" {
		return Check{}, fmt.Errorf("check %q: template is required", name)
	}
	return Check{Name: name, Condition: cond, Severity: sev, Template: tmpl}, nil
}

// Violation is one failed check for one measurement.
type Violation struct {
	Severity Severity
	Check    string
	Text     string
}

// Policy is the complete alerting policy of one sensor: a base two-sided
// range check plus zero or more supplementary checks.
type Policy struct {
	Kind     Kind
	Category string
	Range    Range
	Language Language
	Checks   []Check
}

// New builds a Policy for kind. An empty category resolves to the kind's
// default label in lang. The kind's built-in supplementary checks come first,
// followed by extra in the given order.
func New(kind Kind, category string, r Range, lang Language, extra ...Check) (*Policy, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, ok := kinds[kind]; !ok {
		return nil, fmt.Errorf("policy: unknown kind %q", kind)
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	if category == "" {
		category = DefaultCategory(kind, lang)
	}
	if category == "" {
		return nil, fmt.Errorf("policy: category is required for kind %q", kind)
	}

	return &Policy{
		Kind:     kind,
		Category: category,
		Range:    r,
		Language: lang,
		Checks:   append(builtinChecks(kind), extra...),
	}, nil
}

// Evaluate returns every violation v triggers: the base range violation (at
// most one) followed by each supplementary check that fires, in order. A nil
// result means v is acceptable.
func (p *Policy) Evaluate(v float64) []Violation {
	var out []Violation
	if viol, ok := p.Base(v); ok {
		out = append(out, viol)
	}
	for _, c := range p.Checks {
		if !c.Condition.Holds(v) {
			continue
		}
		out = append(out, Violation{
			Severity: c.Severity,
			Check:    c.Name,
			Text:     Render(Template(p.Language, c.Template), p.Category, v),
		})
	}
	return out
}

// Base runs only the two-sided range check.
func (p *Policy) Base(v float64) (Violation, bool) {
	switch {
	case v < p.Range.Min:
		return Violation{
			Severity: SeverityCritical,
			Check:    CheckBelowRange,
			Text:     Render(Template(p.Language, TemplateBelow), p.Category, v),
		}, true
	case v > p.Range.Max:
		return Violation{
			Severity: SeverityOutOfRange,
			Check:    CheckAboveRange,
			Text:     Render(Template(p.Language, TemplateAbove), p.Category, v),
		}, true
	default:
		return Violation{}, false
	}
}
