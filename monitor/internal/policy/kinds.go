package policy

import "fmt"

// Kind selects the category-specific supplementary checks layered on top of
// the base range check.
type Kind string

const (
	KindGeneric     Kind = "generic"
	KindTemperature Kind = "temperature"
	KindPressure    Kind = "pressure"
	KindHumidity    Kind = "humidity"
	KindFuelLevel   Kind = "fuel_level"
)

// Supplementary thresholds for the built-in checks.
const (
	LowPressureThreshold = 30
	LowFuelThreshold     = 10
)

type kindDefaults struct {
	rng      Range
	category map[Language]string
	checks   []Check
}

var kinds = map[Kind]kindDefaults{
	KindGeneric: {
		rng: Range{Min: 0, Max: 100},
	},
	KindTemperature: {
		rng:      Range{Min: 0, Max: 100},
		category: map[Language]string{LangES: "Temperatura", LangEN: "Temperature"},
	},
	KindPressure: {
		rng:      Range{Min: 0, Max: 1000},
		category: map[Language]string{LangES: "Presión", LangEN: "Pressure"},
		checks: []Check{
			mustCheck(TemplateLowPressure, fmt.Sprintf("value < %d", LowPressureThreshold), SeverityLow, TemplateLowPressure),
		},
	},
	KindHumidity: {
		rng:      Range{Min: 0, Max: 100},
		category: map[Language]string{LangES: "Humedad", LangEN: "Humidity"},
	},
	KindFuelLevel: {
		rng:      Range{Min: 0, Max: 100},
		category: map[Language]string{LangES: "Nivel de Combustible", LangEN: "Fuel level"},
		checks: []Check{
			mustCheck(TemplateLowFuel, fmt.Sprintf("value < %d", LowFuelThreshold), SeverityLow, TemplateLowFuel),
		},
	},
}

// ParseKind maps a config value to a Kind. Empty means KindGeneric.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindGeneric, nil
	}
	if _, ok := kinds[Kind(s)]; !ok {
		return "", fmt.Errorf("unknown sensor kind %q: want generic|temperature|pressure|humidity|fuel_level", s)
	}
	return Kind(s), nil
}

// DefaultRange returns the safe range a kind is installed with when the
// configuration does not override it.
func DefaultRange(kind Kind) Range {
	return kinds[kind].rng
}

// DefaultCategory returns the display label for kind in lang, or "" for
// kinds without one.
func DefaultCategory(kind Kind, lang Language) string {
	names := kinds[kind].category
	if c, ok := names[lang]; ok {
		return c
	}
	return names[DefaultLanguage]
}

// builtinChecks returns a copy of the supplementary checks attached to kind.
func builtinChecks(kind Kind) []Check {
	return append([]Check(nil), kinds[kind].checks...)
}

func mustCheck(name, expr string, sev Severity, tmpl string) Check {
	c, err := NewCheck(name, expr, sev, tmpl)
	if err != nil {
		panic(err)
	}
	return c
}
