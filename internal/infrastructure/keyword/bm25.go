package keyword

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/getclever/docqa/internal/core/domain"
)

const (
	defaultK1 = 1.2
	defaultB  = 0.75
)

type indexedChunk struct {
	chunk  domain.Chunk
	tokens []string
	tf     map[string]int
}

// Index is an in-memory BM25 index over the ingested corpus. Chunk text is
// tokenized once when added; scoring reads only cached token state, so
// repeated queries over an unchanged corpus are deterministic.
type Index struct {
	k1 float64
	b  float64

	mu          sync.RWMutex
	chunks      map[string]*indexedChunk
	postings    map[string]map[string]int
	totalTokens int
}

func NewIndex(k1, b float64) *Index {
	if k1 <= 0 {
		k1 = defaultK1
	}
	if b < 0 || b > 1 {
		b = defaultB
	}
	return &Index{
		k1:       k1,
		b:        b,
		chunks:   make(map[string]*indexedChunk),
		postings: make(map[string]map[string]int),
	}
}

func (idx *Index) Add(chunks []domain.Chunk) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, chunk := range chunks {
		if _, exists := idx.chunks[chunk.ID]; exists {
			continue
		}
		tokens := Tokenize(chunk.Text)
		tf := make(map[string]int, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		idx.chunks[chunk.ID] = &indexedChunk{chunk: chunk, tokens: tokens, tf: tf}
		idx.totalTokens += len(tokens)

		for token, count := range tf {
			posting := idx.postings[token]
			if posting == nil {
				posting = make(map[string]int)
				idx.postings[token] = posting
			}
			posting[chunk.ID] = count
		}
	}
}

// Search scores every chunk containing at least one query term with BM25
// (idf-weighted term overlap with length normalization) and returns up to
// limit candidates with scores max-normalized to [0,1]. An empty query
// yields no candidates.
func (idx *Index) Search(query string, limit int) []domain.Candidate {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || limit <= 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	totalChunks := len(idx.chunks)
	if totalChunks == 0 {
		return nil
	}
	avgLen := float64(idx.totalTokens) / float64(totalChunks)
	if avgLen <= 0 {
		avgLen = 1
	}

	scores := make(map[string]float64)
	for _, term := range queryTokens {
		posting, ok := idx.postings[term]
		if !ok {
			continue
		}

		n := float64(len(posting))
		idf := math.Log((float64(totalChunks)-n+0.5)/(n+0.5) + 1)

		for chunkID, tf := range posting {
			dl := float64(len(idx.chunks[chunkID].tokens))
			tfF := float64(tf)
			scores[chunkID] += idf * (tfF * (idx.k1 + 1)) / (tfF + idx.k1*(1-idx.b+idx.b*dl/avgLen))
		}
	}
	if len(scores) == 0 {
		return nil
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}

	out := make([]domain.Candidate, 0, len(scores))
	for chunkID, score := range scores {
		entry := idx.chunks[chunkID]
		normalized := 0.0
		if maxScore > 0 {
			normalized = score / maxScore
		}
		out = append(out, domain.Candidate{
			ChunkID:        entry.chunk.ID,
			Text:           entry.chunk.Text,
			SourceDocument: entry.chunk.SourceDocument,
			PositionIndex:  entry.chunk.PositionIndex,
			KeywordScore:   normalized,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].KeywordScore != out[j].KeywordScore {
			return out[i].KeywordScore > out[j].KeywordScore
		}
		if out[i].SourceDocument != out[j].SourceDocument {
			return out[i].SourceDocument < out[j].SourceDocument
		}
		return out[i].PositionIndex < out[j].PositionIndex
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = make(map[string]*indexedChunk)
	idx.postings = make(map[string]map[string]int)
	idx.totalTokens = 0
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Tokenize lowercases and splits on non-alphanumeric runes.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
