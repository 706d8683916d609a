// Package searcher is the single entry point for bookmark search.
//
// A search runs as a short pipeline: validate the query, load settings once,
// build the ranker for the active provider, rank, and normalize the outcome.
//
//	s := searcher.NewSearcher(settingsStore, ranker.Options{OllamaURL: "http://localhost:11434"})
//	res := s.Search(ctx, "go concurrency talks", bookmarks)
//	if res.Message != "" {
//	    fmt.Println(res.Message)
//	}
//	for _, bm := range res.Results {
//	    fmt.Println(bm.Title, bm.URL)
//	}
//
// Search never returns an error. Every failure becomes a SearchResult with an
// empty Results slice and a message suitable for showing to the user. Queries
// shorter than three characters are rejected without contacting a provider.
package searcher
