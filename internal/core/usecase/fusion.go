package usecase

import (
	"sort"

	"github.com/getclever/docqa/internal/core/domain"
)

// fuseCandidates merges the semantic and keyword rankings into one candidate
// list, deduplicated by chunk id. Both scorers deliver scores normalized to
// [0,1]; a chunk present in only one list gets the minimum observed score of
// the other list, not zero, so single-list hits are not over-penalized. The
// fused score is alpha*semantic + (1-alpha)*keyword. Ordering is
// deterministic: descending fused score, ties broken by earlier document
// position.
func fuseCandidates(semantic, keyword []domain.Candidate, alpha float64) []domain.Candidate {
	if alpha < 0 || alpha > 1 {
		alpha = 0.65
	}
	if len(semantic) == 0 && len(keyword) == 0 {
		return nil
	}

	minSemantic := minScore(semantic, func(c domain.Candidate) float64 { return c.SemanticScore })
	minKeyword := minScore(keyword, func(c domain.Candidate) float64 { return c.KeywordScore })

	acc := make(map[string]domain.Candidate, len(semantic)+len(keyword))
	inSemantic := make(map[string]struct{}, len(semantic))
	inKeyword := make(map[string]struct{}, len(keyword))

	for _, c := range semantic {
		merged := mergeCandidate(acc[c.ChunkID], c)
		merged.SemanticScore = c.SemanticScore
		acc[c.ChunkID] = merged
		inSemantic[c.ChunkID] = struct{}{}
	}
	for _, c := range keyword {
		merged := mergeCandidate(acc[c.ChunkID], c)
		merged.KeywordScore = c.KeywordScore
		acc[c.ChunkID] = merged
		inKeyword[c.ChunkID] = struct{}{}
	}

	out := make([]domain.Candidate, 0, len(acc))
	for id, c := range acc {
		if _, ok := inSemantic[id]; !ok {
			c.SemanticScore = minSemantic
		}
		if _, ok := inKeyword[id]; !ok {
			c.KeywordScore = minKeyword
		}
		c.FusedScore = alpha*c.SemanticScore + (1-alpha)*c.KeywordScore
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FusedScore != out[j].FusedScore {
			return out[i].FusedScore > out[j].FusedScore
		}
		return earlierPosition(out[i], out[j])
	})
	return out
}

func earlierPosition(a, b domain.Candidate) bool {
	if a.SourceDocument != b.SourceDocument {
		return a.SourceDocument < b.SourceDocument
	}
	if a.PositionIndex != b.PositionIndex {
		return a.PositionIndex < b.PositionIndex
	}
	return a.ChunkID < b.ChunkID
}

func minScore(candidates []domain.Candidate, score func(domain.Candidate) float64) float64 {
	if len(candidates) == 0 {
		return 0
	}
	min := score(candidates[0])
	for _, c := range candidates[1:] {
		if v := score(c); v < min {
			min = v
		}
	}
	return min
}

func mergeCandidate(current, candidate domain.Candidate) domain.Candidate {
	if current.ChunkID == "" {
		current.ChunkID = candidate.ChunkID
		current.SourceDocument = candidate.SourceDocument
		current.PositionIndex = candidate.PositionIndex
	}
	if current.Text == "" && candidate.Text != "" {
		current.Text = candidate.Text
	}
	return current
}

func trimCandidates(candidates []domain.Candidate, limit int) []domain.Candidate {
	if limit <= 0 || len(candidates) <= limit {
		return candidates
	}
	return candidates[:limit]
}
