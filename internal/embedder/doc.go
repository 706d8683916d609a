// Package embedder generates vector embeddings for bookmark contexts.
//
// Two backends are supported: the hosted Hugging Face feature-extraction API
// and a local Ollama server. Both implement the Embedder interface.
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider: "ollama",
//	    Model:    "nomic-embed-text",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	resp, err := emb.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{
//	    Texts: []string{query, ctx0, ctx1},
//	})
//
// Embeddings come back in request order, one per text. A nil entry means the
// backend returned no vector for that text.
//
// # Batching
//
// Hugging Face receives the whole batch in one request. Ollama embeds a single
// prompt per request, so a batch is sent one text at a time. Setting
// Config.Concurrency above 1 runs those requests through a bounded pool, and
// Config.RateLimit throttles them. The first failure aborts the batch.
//
// # Caching
//
// An optional LRU cache skips texts already embedded by the same provider and
// model:
//
//	cache := embedder.NewCache(1024)
//	emb, _ := embedder.New(embedder.Config{Provider: "hf", Cache: cache})
//
// Only cache misses are sent to the backend.
//
// # Error Handling
//
// Failures are reported with the typed errors from pkg/types:
//
//	var connErr *types.ConnectionError
//	if errors.As(err, &connErr) {
//	    // Ollama is not running at connErr.Endpoint
//	}
//
// There are no retries; callers decide whether to try again.
package embedder
