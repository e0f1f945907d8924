package report

import "strings"

// narrationPrefixes and narrationPhrases identify search-agent chatter that
// occasionally leaks into answers: tool-protocol lines and meta-commentary.
var (
	narrationPrefixes = []string{"Action:", "Observation:"}
	narrationPhrases  = []string{"I'll search for", "I need to search for"}
)

// formatSection strips agent narration from raw and wraps the remainder
// under a markdown heading. Applied uniformly to all report sections.
func formatSection(raw, title string) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	var clean []string
	for _, line := range strings.Split(raw, "\n") {
		if isNarration(line) {
			continue
		}
		clean = append(clean, line)
	}
	sb.WriteString(strings.Join(clean, "\n"))
	return sb.String()
}

func isNarration(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range narrationPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	for _, p := range narrationPhrases {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
