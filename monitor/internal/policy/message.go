package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Language selects the alert and category vocabulary.
type Language string

const (
	LangES Language = "es"
	LangEN Language = "en"
)

// DefaultLanguage matches the vocabulary operators were originally deployed with.
const DefaultLanguage = LangES

// Template names for the built-in messages.
const (
	TemplateBelow       = "below"
	TemplateAbove       = "above"
	TemplateLowPressure = "low_pressure"
	TemplateLowFuel     = "low_fuel"
)

var templates = map[Language]map[string]string{
	LangES: {
		TemplateBelow:       "Alerta: {category} por debajo de nivel crítico. Valor: {value}",
		TemplateAbove:       "Alerta: {category} fuera de rango. Valor: {value}",
		TemplateLowPressure: "Alerta: Presión baja. Valor: {value}",
		TemplateLowFuel:     "Alerta: Nivel de combustible bajo. Valor: {value}",
	},
	LangEN: {
		TemplateBelow:       "Alert: {category} below critical level. Value: {value}",
		TemplateAbove:       "Alert: {category} out of range. Value: {value}",
		TemplateLowPressure: "Alert: Low pressure. Value: {value}",
		TemplateLowFuel:     "Alert: Low fuel level. Value: {value}",
	},
}

// ParseLanguage maps a config value to a Language. Empty means DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case "":
		return DefaultLanguage, nil
	case LangES, LangEN:
		return Language(s), nil
	default:
		return "", fmt.Errorf("unknown language %q: want es|en", s)
	}
}

// Template returns the built-in template name in lang, falling back to
// DefaultLanguage. Unknown names are returned unchanged so callers may pass
// a literal template instead of a name.
func Template(lang Language, name string) string {
	if t, ok := templates[lang][name]; ok {
		return t
	}
	if t, ok := templates[DefaultLanguage][name]; ok {
		return t
	}
	return name
}

// Render substitutes {category} and {value} in tmpl.
func Render(tmpl, category string, v float64) string {
	return strings.NewReplacer(
		"{category}", category,
		"{value}", formatValue(v),
	).Replace(tmpl)
}

// formatValue renders v in its shortest exact decimal form: 120, 20.5, -3.25.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
