// Package policy decides whether a measurement violates a sensor's safe range
// and renders the alert text for each violation.
//
// policy.go provides Policy, built by New(kind, category, range, lang, extra...).
// Policy.Evaluate runs the two-sided base range check first:
//
//	value < Min  → severity "critical",     "below critical level" template
//	value > Max  → severity "out_of_range", "out of range" template
//
// and then every supplementary Check in order. Each returned Violation is meant
// to be delivered as its own notification pass.
//
// condition.go parses supplementary check expressions of the form
// "value < 30" once, at construction time.
//
// Built-in supplementary checks: pressure "value < 30" (low pressure),
// fuel_level "value < 10" (low fuel). They run regardless of the base check.
//
// message.go holds the alert templates for the supported languages (es, en).
package policy
