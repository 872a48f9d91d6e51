package vectordb

import "context"

// Service is a database-agnostic view of a vector store. Application code
// that only needs "store vectors, search vectors" can depend on Service and
// stay independent of a specific backend.
//
// Example usage:
//
//	func NewSearchService(db vectordb.Service) *SearchService {
//	    return &SearchService{db: db}
//	}
//
//	// backed by Chroma:
//	//   chroma.NewAdapter(chromaClient)
type Service interface {
	// Search runs one similarity search per request. Requests may target
	// different collections.
	// Returns one []SearchResult per request, in request order. Failures of
	// individual requests are joined into err; the matching slot is nil.
	//
	// Example:
	//   results, err := db.Search(ctx,
	//       SearchRequest{CollectionName: "docs", Vector: vec1, TopK: 10},
	//       SearchRequest{CollectionName: "docs", Vector: vec2, TopK: 5, Filters: filters},
	//   )
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Insert stores embeddings, replacing entries with the same ID.
	// Large inputs are sent in batches.
	Insert(ctx context.Context, collectionName string, inputs []EmbeddingInput) error

	// Delete removes entries by ID. An empty id list deletes nothing.
	Delete(ctx context.Context, collectionName string, ids []string) error

	// EnsureCollection creates a collection if it doesn't exist.
	// Safe to call concurrently and repeatedly.
	EnsureCollection(ctx context.Context, name string, metadata map[string]any) error

	// GetCollection retrieves information about a collection.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
