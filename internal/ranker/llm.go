package ranker

import (
	"context"

	"github.com/dshills/fetchmark/internal/llm"
	"github.com/dshills/fetchmark/pkg/types"
)

// completer is the part of llm.Client the ranker needs
type completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
	Close() error
}

// LLMRanker asks a chat model to pick the most relevant bookmark indices
type LLMRanker struct {
	client completer
}

// NewLLMRanker creates a ranker backed by a chat client
func NewLLMRanker(client completer) *LLMRanker {
	return &LLMRanker{client: client}
}

func (r *LLMRanker) Provider() string {
	return types.ProviderGroq
}

func (r *LLMRanker) Close() error {
	return r.client.Close()
}

// Rank lists at most llm.MaxCandidatesInPrompt candidates in a prompt and maps
// the indices in the model reply back to bookmarks.
func (r *LLMRanker) Rank(ctx context.Context, query string, bookmarks []types.Bookmark) ([]types.Bookmark, error) {
	if len(bookmarks) == 0 {
		return []types.Bookmark{}, nil
	}

	candidates := llm.Truncate(bookmarks)

	reply, err := r.client.Complete(ctx, llm.RankingMessages(query, candidates))
	if err != nil {
		return nil, err
	}

	indices := llm.ParseIndices(reply, len(candidates))
	results := make([]types.Bookmark, 0, len(indices))
	for _, idx := range indices {
		results = append(results, candidates[idx])
	}
	return results, nil
}
