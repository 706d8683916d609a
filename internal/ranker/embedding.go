package ranker

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/fetchmark/internal/embedder"
	"github.com/dshills/fetchmark/internal/vecmath"
	"github.com/dshills/fetchmark/pkg/types"
)

const (
	// SimilarityThreshold is the score a candidate must exceed to be returned
	SimilarityThreshold = 0.3

	// missingScore is assigned to candidates the backend returned no vector for
	missingScore = -1.0
)

// SimilarityScore pairs a candidate index with its cosine similarity to the query
type SimilarityScore struct {
	Index int
	Score float64
}

// EmbeddingRanker scores candidates by cosine similarity between their context
// embedding and the query embedding
type EmbeddingRanker struct {
	embedder embedder.Embedder
}

// NewEmbeddingRanker creates a ranker backed by an embedder
func NewEmbeddingRanker(emb embedder.Embedder) *EmbeddingRanker {
	return &EmbeddingRanker{embedder: emb}
}

func (r *EmbeddingRanker) Provider() string {
	return r.embedder.Provider()
}

func (r *EmbeddingRanker) Close() error {
	return r.embedder.Close()
}

// Rank embeds [query, context_0, context_1, ...] in one batch, keeps candidates
// scoring above SimilarityThreshold and returns the top types.MaxResults.
func (r *EmbeddingRanker) Rank(ctx context.Context, query string, bookmarks []types.Bookmark) ([]types.Bookmark, error) {
	if len(bookmarks) == 0 {
		return []types.Bookmark{}, nil
	}

	texts := append([]string{query}, types.Contexts(bookmarks)...)

	resp, err := r.embedder.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, &types.EmbeddingFormatError{
			Provider: r.Provider(),
			Reason:   fmt.Sprintf("requested %d embeddings, received %d", len(texts), len(resp.Embeddings)),
		}
	}

	queryEmb := resp.Embeddings[0]
	if queryEmb == nil || len(queryEmb.Vector) == 0 {
		return nil, &types.EmbeddingFormatError{Provider: r.Provider(), Reason: "missing query embedding"}
	}

	scores := Score(queryEmb.Vector, resp.Embeddings[1:])
	return Select(scores, bookmarks), nil
}

// Score computes the similarity of each candidate to the query vector.
// A nil candidate scores -1.
func Score(query []float32, candidates []*embedder.Embedding) []SimilarityScore {
	scores := make([]SimilarityScore, len(candidates))
	for i, emb := range candidates {
		score := missingScore
		if emb != nil && emb.Vector != nil {
			score = vecmath.CosineSimilarity(query, emb.Vector)
		}
		scores[i] = SimilarityScore{Index: i, Score: score}
	}
	return scores
}

// Select sorts scores descending, keeping the original order on ties, and maps
// the top types.MaxResults scores above SimilarityThreshold back to bookmarks.
func Select(scores []SimilarityScore, bookmarks []types.Bookmark) []types.Bookmark {
	sorted := make([]SimilarityScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	results := make([]types.Bookmark, 0, types.MaxResults)
	for _, s := range sorted {
		if s.Score <= SimilarityThreshold || len(results) == types.MaxResults {
			break
		}
		results = append(results, bookmarks[s.Index])
	}
	return results
}
