package llm

import (
	"fmt"
	"strings"

	"github.com/dshills/fetchmark/pkg/types"
)

// MaxCandidatesInPrompt caps how many bookmarks are listed in a ranking prompt
const MaxCandidatesInPrompt = 100

const systemPrompt = `You are an AI assistant helping a user find relevant bookmarks.
The user has provided a query and a list of their bookmarks with indices and context (Title, URL, Path).
Your task is to identify the indices of the bookmarks most relevant to the user's query.
Consider the semantic meaning of the query and the bookmark context.
Respond ONLY with a comma-separated list of the indices of the top 5 most relevant bookmarks, ordered from most relevant to least relevant.
Example response: '3, 1, 5, 0, 2'
If no bookmarks are relevant, respond with an empty string or 'NONE'.`

// Truncate returns the prefix of bookmarks that fits in a prompt
func Truncate(bookmarks []types.Bookmark) []types.Bookmark {
	if len(bookmarks) > MaxCandidatesInPrompt {
		return bookmarks[:MaxCandidatesInPrompt]
	}
	return bookmarks
}

// RankingMessages builds the system and user messages asking the model to rank
// candidates against query. Candidates are listed as "index: context" lines.
func RankingMessages(query string, candidates []types.Bookmark) []Message {
	lines := make([]string, len(candidates))
	for i, bm := range candidates {
		lines[i] = fmt.Sprintf("%d: %s", i, bm.Context())
	}

	userPrompt := fmt.Sprintf(`User Query: "%s"

Bookmarks List:
%s

Identify the top 5 relevant bookmark indices based on the query. Respond only with the comma-separated indices.`,
		query, strings.Join(lines, "\n"))

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}
}

// ParseIndices extracts candidate indices from a model reply, most relevant first.
// Tokens that are not integers or fall outside [0, n) are dropped, as are repeats.
// At most types.MaxResults indices are returned.
func ParseIndices(reply string, n int) []int {
	reply = strings.Trim(strings.TrimSpace(reply), `'"[]`)
	if reply == "" || strings.EqualFold(reply, "NONE") {
		return nil
	}

	var indices []int
	seen := make(map[int]bool)
	for _, token := range strings.Split(reply, ",") {
		idx, ok := leadingInt(strings.TrimSpace(token))
		if !ok || idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
		if len(indices) == types.MaxResults {
			break
		}
	}
	return indices
}

// leadingInt parses an optional sign followed by digits, ignoring anything after
// the digits. "3." and "4 (docs)" both parse; "x3" does not.
func leadingInt(s string) (int, bool) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	start := i
	value := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if value > 1<<30 {
			return 0, false
		}
		value = value*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}

	if neg {
		value = -value
	}
	return value, true
}
