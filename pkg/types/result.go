package types

// MaxResults is the largest number of bookmarks a search returns
const MaxResults = 5

// SearchResult is the uniform envelope returned for every search, successful or not
type SearchResult struct {
	Results []Bookmark `json:"results"` // most relevant first, never nil
	Message string     `json:"message"` // empty on success with results
}

// NewSearchResult builds an envelope, guaranteeing a non-nil results slice
func NewSearchResult(results []Bookmark, message string) SearchResult {
	if results == nil {
		results = []Bookmark{}
	}
	return SearchResult{
		Results: results,
		Message: message,
	}
}

// ConnectionResult reports the outcome of a local backend diagnostic
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
