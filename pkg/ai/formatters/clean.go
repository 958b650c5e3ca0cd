package formatters

import (
	"regexp"
	"strings"
)

var (
	jsonFence = regexp.MustCompile("(?i)```json\\s*")
	anyFence  = regexp.MustCompile("```\\s*")
)

// CleanJSONResponse removes code fences and any text before the first [ or {
// and after the last ] or }.
func CleanJSONResponse(text string) string {
	cleaned := jsonFence.ReplaceAllString(text, "")
	cleaned = anyFence.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "[") && !strings.HasPrefix(cleaned, "{") {
		arrayStart := strings.Index(cleaned, "[")
		objectStart := strings.Index(cleaned, "{")
		if arrayStart != -1 && (objectStart == -1 || arrayStart < objectStart) {
			cleaned = cleaned[arrayStart:]
		} else if objectStart != -1 {
			cleaned = cleaned[objectStart:]
		}
	}

	if !strings.HasSuffix(cleaned, "]") && !strings.HasSuffix(cleaned, "}") {
		arrayEnd := strings.LastIndex(cleaned, "]")
		objectEnd := strings.LastIndex(cleaned, "}")
		if arrayEnd != -1 && arrayEnd > objectEnd {
			cleaned = cleaned[:arrayEnd+1]
		} else if objectEnd != -1 {
			cleaned = cleaned[:objectEnd+1]
		}
	}
	return cleaned
}

var quotePairs = [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}, {"«", "»"}}

// CleanText normalizes a free-text answer: fences and surrounding quotes are
// dropped and whitespace trimmed.
func CleanText(text string) string {
	t := anyFence.ReplaceAllString(text, "")
	t = strings.TrimSpace(t)
	for _, q := range quotePairs {
		if len(t) >= len(q[0])+len(q[1]) && strings.HasPrefix(t, q[0]) && strings.HasSuffix(t, q[1]) {
			t = strings.TrimSpace(t[len(q[0]) : len(t)-len(q[1])])
			break
		}
	}
	return t
}
