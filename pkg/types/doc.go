// Package types provides shared type definitions for the fetchmark bookmark search server.
//
// This package defines the domain types used across components: bookmarks,
// provider settings, the search result envelope, and the provider error taxonomy.
//
// # Bookmarks
//
// A Bookmark is one flattened entry from the browser bookmark tree. Its context
// string is derived from the other fields on every call, so it always reflects
// the current title, URL and folder path:
//
//	bm := types.NewBookmark("42", "Go Blog", "https://go.dev/blog", []string{"Bookmarks bar", "Dev"}, "")
//	bm.Context() // "Title: Go Blog | URL: https://go.dev/blog | Path: Bookmarks bar / Dev"
//
// # Search Results
//
// Every search returns a SearchResult. Results is never nil so it always
// encodes as a JSON array; Message is empty on success:
//
//	res := types.NewSearchResult(nil, "No relevant bookmarks found.")
//
// # Errors
//
// Providers report failures with typed errors that also match a sentinel:
//
//	var httpErr *types.ProviderHTTPError
//	if errors.As(err, &httpErr) && httpErr.Unauthorized() {
//	    // ask the user to check the API key
//	}
//
//	if errors.Is(err, types.ErrConnection) {
//	    // local backend is down
//	}
package types
