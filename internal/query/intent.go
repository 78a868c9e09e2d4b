package query

import "strings"

// overrideRule forces a category when its keyword appears in the normalized
// query and the model predicted something else.
type overrideRule struct {
	keyword  string
	category string
}

// overrideRules are evaluated in this fixed priority order; the first
// matching rule wins. The order is part of the behavioral contract.
var overrideRules = []overrideRule{
	{keyword: "lecture", category: "lecture"},
	{keyword: "slide", category: "slide"},
	{keyword: "assignment", category: "assignment"},
	{keyword: "exam", category: "exam"},
	{keyword: "research", category: "research"},
}

// resolveCategory applies the deterministic overrides to the model's
// prediction. Only the label changes; confidence reporting stays with the
// original prediction.
func resolveCategory(normalized, predicted string) string {
	for _, rule := range overrideRules {
		if rule.category == predicted {
			continue
		}
		if strings.Contains(normalized, rule.keyword) {
			return rule.category
		}
	}
	return predicted
}
