package normalization

import "strings"

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ParseLabels normalizes a list of emotion labels, dropping empties and
// duplicates while preserving order.
func ParseLabels(inputs []string) []string {
	seen := make(map[string]struct{}, len(inputs))
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		label := ParseInputString(in)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
