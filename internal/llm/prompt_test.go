package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fetchmark/pkg/types"
)

func makeBookmarks(n int) []types.Bookmark {
	out := make([]types.Bookmark, n)
	for i := range out {
		out[i] = types.NewBookmark(fmt.Sprint(i), fmt.Sprintf("Bookmark %d", i), fmt.Sprintf("https://example.com/%d", i), nil, "")
	}
	return out
}

func TestTruncate(t *testing.T) {
	assert.Len(t, Truncate(makeBookmarks(3)), 3)
	assert.Len(t, Truncate(makeBookmarks(150)), MaxCandidatesInPrompt)
	assert.Empty(t, Truncate(nil))
}

func TestRankingMessages(t *testing.T) {
	bms := makeBookmarks(2)
	messages := RankingMessages("golang tutorials", bms)

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "comma-separated list of the indices of the top 5")
	assert.Contains(t, messages[0].Content, "'NONE'")

	assert.Equal(t, "user", messages[1].Role)
	user := messages[1].Content
	assert.True(t, strings.HasPrefix(user, `User Query: "golang tutorials"`))
	assert.Contains(t, user, "0: Title: Bookmark 0 | URL: https://example.com/0 | Path: Root\n1: Title: Bookmark 1")
	assert.True(t, strings.HasSuffix(user, "Respond only with the comma-separated indices."))

	// Same input, same prompt
	assert.Equal(t, messages, RankingMessages("golang tutorials", bms))
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		n     int
		want  []int
	}{
		{"ordered indices", "2,0", 3, []int{2, 0}},
		{"spaces", " 3, 1 , 5 ", 6, []int{3, 1, 5}},
		{"none", "NONE", 10, nil},
		{"none lowercase", "none", 10, nil},
		{"empty", "   ", 10, nil},
		{"out of range dropped", "1, 7, -1, 2", 3, []int{1, 2}},
		{"garbage dropped", "a, 1, b2", 3, []int{1}},
		{"trailing text ignored", "4 (docs), 2.", 5, []int{4, 2}},
		{"quoted example format", "'3, 1, 0'", 4, []int{3, 1, 0}},
		{"duplicates dropped", "1, 1, 0, 1", 3, []int{1, 0}},
		{"capped at five", "0,1,2,3,4,5,6", 10, []int{0, 1, 2, 3, 4}},
		{"no candidates", "0", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIndices(tt.reply, tt.n))
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{"+3", 3, true},
		{"-4", -4, true},
		{"7abc", 7, true},
		{"", 0, false},
		{"-", 0, false},
		{"x1", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		got, ok := leadingInt(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
