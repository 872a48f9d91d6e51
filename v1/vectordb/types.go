package vectordb

// SearchRequest represents a single similarity search query.
type SearchRequest struct {
	// CollectionName is the target collection to search in
	CollectionName string `json:"collectionName"`

	// Vector is the query embedding to find similar vectors for
	Vector []float32 `json:"vector"`

	// TopK is the maximum number of results to return
	TopK int `json:"maxResults"`

	// Filters is optional metadata filtering (AND/OR/NOT logic)
	Filters *FilterSet `json:"filters,omitempty"`

	// WithVectors asks the backend to return stored vectors
	WithVectors bool `json:"withVectors,omitempty"`
}

// SearchResult is a single match. Results of one request are ordered by
// descending Score.
type SearchResult struct {
	ID string `json:"id"`

	// Score is the similarity score; higher is more similar.
	Score float32 `json:"score"`

	// Distance is the raw backend distance; lower is more similar.
	Distance float32 `json:"distance"`

	// Document is the stored text, if any
	Document string `json:"document,omitempty"`

	// Payload contains the metadata stored with the vector
	Payload map[string]any `json:"payload"`

	// Vector is the stored embedding (only populated if requested)
	Vector []float32 `json:"vector,omitempty"`

	CollectionName string `json:"collectionName,omitempty"`
}

// EmbeddingInput is one entry to store.
type EmbeddingInput struct {
	ID string `json:"id"`

	// Vector is the dense embedding representation
	Vector []float32 `json:"vector"`

	// Document is optional source text stored alongside the vector
	Document string `json:"document,omitempty"`

	// Payload is optional metadata to store with the vector
	Payload map[string]any `json:"payload,omitempty"`
}

// Collection describes a vector collection.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Metadata is the collection-level metadata
	Metadata map[string]any `json:"metadata,omitempty"`

	// VectorSize is the dimension of vectors in this collection, 0 if unknown
	VectorSize int `json:"vectorSize"`

	// PointCount is the number of stored entries
	PointCount uint64 `json:"pointCount"`
}
