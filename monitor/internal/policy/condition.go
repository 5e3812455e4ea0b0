package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is a parsed "value <op> <threshold>" expression.
type Condition struct {
	op        string
	threshold float64
}

// ParseCondition parses a supplementary check expression.
//
// Supported expressions (field operator value):
//
//	value < 30
//	value <= 10
//	value > 95.5
//	value >= 100
//	value == 0
//	value != 0
//
// The only field is "value"; the right-hand side must be a number.
func ParseCondition(expr string) (Condition, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return Condition{}, fmt.Errorf("condition %q: want \"value <op> <number>\"", expr)
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field != "value" {
		return Condition{}, fmt.Errorf("condition %q: unknown field %q", expr, field)
	}
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
	default:
		return Condition{}, fmt.Errorf("condition %q: unknown operator %q", expr, op)
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return Condition{}, fmt.Errorf("condition %q: threshold: %w", expr, err)
	}
	return Condition{op: op, threshold: threshold}, nil
}

// Holds reports whether v satisfies the condition.
func (c Condition) Holds(v float64) bool {
	return compareFloat(v, c.op, c.threshold)
}

func (c Condition) String() string {
	return "value " + c.op + " " + formatValue(c.threshold)
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
