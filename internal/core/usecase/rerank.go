package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/getclever/docqa/internal/core/domain"
)

// rerankCandidates applies the finer relevance pass over the top-N fused
// candidates. Fused scores from independent scorers are not calibrated
// against each other, so the head is re-scored from a min-max normalized
// fused score blended with query-chunk lexical overlap and a source-name
// hit, then truncated to topK. Candidates below minRerankScore are dropped;
// an empty result is the insufficient-evidence outcome, not an error.
func rerankCandidates(query string, fused []domain.Candidate, topN, topK int, minRerankScore float64) []domain.Candidate {
	if len(fused) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = 5
	}

	head := append([]domain.Candidate(nil), trimCandidates(fused, topN)...)
	queryTokens := toTokenSet(query)

	minFused := head[0].FusedScore
	maxFused := head[0].FusedScore
	for _, c := range head[1:] {
		if c.FusedScore < minFused {
			minFused = c.FusedScore
		}
		if c.FusedScore > maxFused {
			maxFused = c.FusedScore
		}
	}

	fusedRange := maxFused - minFused
	normalize := func(v float64) float64 {
		if fusedRange <= 0 {
			if v > 0 {
				return 1
			}
			return 0
		}
		return (v - minFused) / fusedRange
	}

	for i := range head {
		overlap := tokenOverlap(queryTokens, toTokenSet(head[i].Text))
		sourceHit := sourceTokenHit(queryTokens, head[i].SourceDocument)
		head[i].RerankScore = 0.60*normalize(head[i].FusedScore) + 0.30*overlap + 0.10*sourceHit
	}

	sort.SliceStable(head, func(i, j int) bool {
		if head[i].RerankScore != head[j].RerankScore {
			return head[i].RerankScore > head[j].RerankScore
		}
		return earlierPosition(head[i], head[j])
	})

	out := make([]domain.Candidate, 0, topK)
	for _, c := range head {
		if c.RerankScore < minRerankScore {
			continue
		}
		out = append(out, c)
		if len(out) == topK {
			break
		}
	}
	return out
}

func tokenOverlap(query, chunk map[string]struct{}) float64 {
	if len(query) == 0 || len(chunk) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := chunk[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func sourceTokenHit(query map[string]struct{}, sourceDocument string) float64 {
	if len(query) == 0 || sourceDocument == "" {
		return 0
	}
	sourceDocument = strings.ToLower(sourceDocument)
	for token := range query {
		if token == "" {
			continue
		}
		if strings.Contains(sourceDocument, token) {
			return 1
		}
	}
	return 0
}

func toTokenSet(s string) map[string]struct{} {
	tokens := splitAlphaNumLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

func splitAlphaNumLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
