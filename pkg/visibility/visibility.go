package visibility

import (
	"strings"

	"github.com/webtrix/go-leadform/pkg/formdef"
)

// Operator names a comparison between a controlling field's current value
// and a rule's expected value.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
	OpContains  Operator = "contains"
	OpChecked   Operator = "checked"
)

// Rule makes Target visible only while the controlling Field satisfies the
// operator. Rules are declarative; evaluation order never matters because
// each rule reads only the controller's current value.
type Rule struct {
	Target   string
	Field    string
	Operator Operator
	Value    string
}

// RulesFromDefinition collects the show_when clauses out of a parsed form
// definition. Fields without a clause contribute nothing. A missing operator
// defaults to equals.
func RulesFromDefinition(def *formdef.FormDefinition) []Rule {
	var rules []Rule
	for _, field := range def.Definition.Fields {
		if field.ShowWhen == nil {
			continue
		}
		op := Operator(strings.TrimSpace(field.ShowWhen.Operator))
		if op == "" {
			op = OpEquals
		}
		rules = append(rules, Rule{
			Target:   field.Key(),
			Field:    strings.ToLower(strings.TrimSpace(field.ShowWhen.Field)),
			Operator: op,
			Value:    field.ShowWhen.Value,
		})
	}
	return rules
}

// Matches reports whether the controller values satisfy the operator.
// Comparison is trimmed but case-sensitive, so "business" does not satisfy
// an equals rule expecting "Business". Checkbox groups match when any
// checked value does. Unknown operators fall back to equals.
func Matches(op Operator, values []string, want string) bool {
	switch op {
	case OpNotEquals:
		return !anyEquals(values, want)
	case OpContains:
		return anyContains(values, want)
	case OpChecked:
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
		return false
	default:
		return anyEquals(values, want)
	}
}

func anyEquals(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range values {
		if strings.TrimSpace(v) == want {
			return true
		}
	}
	return false
}

func anyContains(values []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, v := range values {
		if strings.Contains(v, want) {
			return true
		}
	}
	return false
}
