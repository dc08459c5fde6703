package ranking

import (
	"fmt"
	"strings"
)

const (
	AnalysisNoCandidates    = "No candidates found with the required skills and specified criteria."
	AnalysisNoFilterMatches = "Found candidates with required skills, but none match the additional filter criteria."
)

// Analysis summarises a ranking of total candidates of which relevant scored
// above the relevance threshold.
func Analysis(total, relevant int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d candidates with the required skills and matching your criteria.\n", total)
	if total > 0 {
		fmt.Fprintf(&b, "%d candidates show strong relevance to the job description.\n", relevant)
		if relevant > 0 {
			b.WriteString("Top candidates are ranked based on their match with your job description.")
		}
	}
	return b.String()
}
