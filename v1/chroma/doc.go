// Package chroma is a typed client for the Chroma vector database HTTP API.
//
// # Architecture
//
//   - Config: connection, tenant/database selection and authentication
//   - Client: collection lifecycle (list, create, get-or-create, delete),
//     heartbeat, version, identity and reset
//   - Collection: entry operations on one collection (add, upsert, update,
//     delete, get, query, count, modify, peek)
//   - Where: filter predicates over metadata and document content
//   - EmbeddingFunction: pluggable text-to-vector capability
//   - Adapter: the client seen through vectordb.Service
//
// Every operation is a single HTTP round trip. Nothing is cached and
// nothing is retried; Collection handles carry only identifying data and
// are safe to share between goroutines.
//
// # Basic Usage
//
//	cfg := chroma.FromURL("http://localhost:8000").
//	    WithTokenAuth(os.Getenv("CHROMA_TOKEN"), chroma.HeaderXChromaToken)
//
//	client, err := chroma.NewClient(cfg)
//	if err != nil {
//	    return err
//	}
//
//	docs, err := client.GetOrCreateCollection(ctx, "docs", chroma.Metadata{"team": "search"})
//	if err != nil {
//	    return err
//	}
//
//	err = docs.Upsert(ctx, chroma.Entries{
//	    IDs:       []string{"a", "b"},
//	    Documents: []string{"cat food", "dog food"},
//	    Metadatas: []chroma.Metadata{{"lang": "en"}, {"lang": "en"}},
//	}, embedder)
//
//	res, err := docs.Query(ctx, chroma.QueryOptions{
//	    QueryTexts:        []string{"cat"},
//	    NResults:          5,
//	    Where:             chroma.Eq("lang", "en"),
//	    EmbeddingFunction: embedder,
//	})
//
// # Embeddings
//
// When an add, upsert, update or query carries text but no vectors, the
// client calls the EmbeddingFunction once for the whole batch. Pass the
// function per call or attach a default with Collection.WithEmbeddingFunction.
// The embedding package provides an OpenAI-compatible implementation.
//
// # Filters
//
//	chroma.And(
//	    chroma.Eq("lang", "en"),
//	    chroma.Or(chroma.Gte("year", 2020), chroma.In("tag", "pinned", "featured")),
//	)
//
// Filters are serialized to the server grammar and not evaluated locally.
// RawWhere passes through operators this package does not model.
//
// # Error Handling
//
// Every error is an *Error with a Kind:
//
//	_, err := client.GetCollection(ctx, "missing")
//	switch {
//	case chroma.IsNotFoundError(err):
//	    // create it
//	case chroma.IsRetryable(err):
//	    // connectivity or server failure, try again later
//	case errors.Is(err, chroma.ErrAuthFailure):
//	    // fix credentials
//	}
//
// Embedding failures are KindEmbedding and happen before any request to the
// database is made.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,  // picked up as logger.Logger
//	    metrics.FXModule, // picked up as observability.Observer
//	    chroma.FXModule,
//	    fx.Provide(logger.NewConfig, metrics.NewConfig, chroma.NewConfig),
//	)
//
// FXModule provides *Client and vectordb.Service. With HeartbeatOnStart the
// app refuses to start when the server is unreachable.
//
// # Observability
//
// Each operation opens an OpenTelemetry span named "chroma.<operation>"
// and, when an observability.Observer is set, reports duration, error and
// record count. HTTP requests carry trace context through otelhttp.
package chroma
