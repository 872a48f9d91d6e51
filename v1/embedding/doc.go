// Package embedding computes text embeddings through an OpenAI-compatible
// /embeddings API.
//
// The Client satisfies chroma.EmbeddingFunction, so it plugs into any
// collection operation that takes text:
//
//	embedder, err := embedding.NewClient(&embedding.Config{
//	    Endpoint: "https://api.openai.com/v1",
//	    APIKey:   os.Getenv("OPENAI_API_KEY"),
//	    Model:    "text-embedding-3-small",
//	})
//	if err != nil {
//	    return err
//	}
//
//	docs = docs.WithEmbeddingFunction(embedder)
//	err = docs.Add(ctx, chroma.Entries{IDs: ids, Documents: texts}, nil)
//
// # Batching
//
// Inputs larger than MaxBatchSize are split into chunks and sent with at
// most MaxConcurrency requests in flight. Results are reassembled by the
// index the server returns, so output order always matches input order.
// One failed chunk fails the call.
//
// # Configuration
//
// NewConfig reads EMBEDDING_ENDPOINT, EMBEDDING_API_KEY (or
// EMBEDDING_SERVICE_TOKEN), EMBEDDING_MODEL, EMBEDDING_DIMENSIONS,
// EMBEDDING_HTTP_TIMEOUT_SECONDS, EMBEDDING_MAX_BATCH_SIZE and
// EMBEDDING_MAX_CONCURRENCY.
//
// # FX Module Integration
//
//	app := fx.New(
//	    embedding.FXModule,
//	)
package embedding
