package chroma

// Metadata maps string keys to scalar values (string, bool, integer or float).
type Metadata map[string]any

// Embedding is a fixed-length numeric vector.
type Embedding []float32

// Include names a column the server should return from Get or Query.
type Include string

const (
	IncludeEmbeddings Include = "embeddings"
	IncludeDocuments  Include = "documents"
	IncludeMetadatas  Include = "metadatas"
	IncludeDistances  Include = "distances"
	IncludeURIs       Include = "uris"
)

var (
	defaultGetInclude   = []Include{IncludeMetadatas, IncludeDocuments}
	defaultQueryInclude = []Include{IncludeMetadatas, IncludeDocuments, IncludeDistances}
)

// Entries is a column-oriented batch for Add, Upsert and Update.
//
// IDs is required. Every other non-nil slice must have len(IDs) elements.
// When Embeddings is nil and Documents is set, the embeddings are computed
// by the EmbeddingFunction passed to the call (or attached to the collection).
type Entries struct {
	IDs        []string
	Embeddings []Embedding
	Documents  []string
	Metadatas  []Metadata
	URIs       []string
}

// Record is one entry reassembled from a Get response.
// A nil field means the column was not requested or not stored.
type Record struct {
	ID        string
	Embedding Embedding
	Document  *string
	Metadata  Metadata
	URI       *string
}

// QueryRecord is a Record returned by Query together with its distance to
// the query vector.
type QueryRecord struct {
	Record
	Distance *float32
}

// GetResult holds the records returned by Get, in server order.
type GetResult struct {
	Records []Record
	Include []Include
}

// IDs returns the record ids in order.
func (r *GetResult) IDs() []string {
	ids := make([]string, len(r.Records))
	for i, rec := range r.Records {
		ids[i] = rec.ID
	}
	return ids
}

// QueryResult holds one ordered list of matches per query vector.
// Matches are in the order the server returned them, closest first.
type QueryResult struct {
	Results [][]QueryRecord
	Include []Include
}

// GetOptions selects entries for Get.
//
// With no IDs, no Where and no WhereDocument, Get returns every entry in the
// collection, bounded only by Limit and Offset.
type GetOptions struct {
	IDs           []string
	Where         *Where
	WhereDocument *Where
	Limit         *int
	Offset        *int

	// Include defaults to metadatas and documents.
	Include []Include
}

// QueryOptions configures a similarity search. Exactly one of
// QueryEmbeddings or QueryTexts must be set.
type QueryOptions struct {
	QueryEmbeddings []Embedding
	QueryTexts      []string

	// NResults is the maximum number of matches per query. Defaults to 10.
	NResults int

	Where         *Where
	WhereDocument *Where

	// Include defaults to metadatas, documents and distances.
	Include []Include

	// EmbeddingFunction overrides the collection's provider for QueryTexts.
	EmbeddingFunction EmbeddingFunction
}

// DeleteOptions selects entries for Delete. Entries matching any of the
// given selectors are removed; when all are empty nothing is deleted.
type DeleteOptions struct {
	IDs           []string
	Where         *Where
	WhereDocument *Where
}

// Identity is the caller identity resolved by the server.
type Identity struct {
	UserID    string   `json:"user_id"`
	Tenant    string   `json:"tenant"`
	Databases []string `json:"databases"`
}

// collectionModel is the wire form of a collection.
type collectionModel struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Metadata          Metadata       `json:"metadata"`
	Tenant            string         `json:"tenant,omitempty"`
	Database          string         `json:"database,omitempty"`
	Dimension         *int           `json:"dimension,omitempty"`
	ConfigurationJSON map[string]any `json:"configuration_json,omitempty"`
}

type createCollectionRequest struct {
	Name        string   `json:"name"`
	Metadata    Metadata `json:"metadata,omitempty"`
	GetOrCreate bool     `json:"get_or_create"`
}

type modifyCollectionRequest struct {
	NewName     *string  `json:"new_name,omitempty"`
	NewMetadata *Metadata `json:"new_metadata,omitempty"`
}

type entriesRequest struct {
	IDs        []string    `json:"ids"`
	Embeddings []Embedding `json:"embeddings,omitempty"`
	Documents  []string    `json:"documents,omitempty"`
	Metadatas  []Metadata  `json:"metadatas,omitempty"`
	URIs       []string    `json:"uris,omitempty"`
}

type getRequest struct {
	IDs           []string  `json:"ids,omitempty"`
	Where         *Where    `json:"where,omitempty"`
	WhereDocument *Where    `json:"where_document,omitempty"`
	Limit         *int      `json:"limit,omitempty"`
	Offset        *int      `json:"offset,omitempty"`
	Include       []Include `json:"include"`
}

type queryRequest struct {
	QueryEmbeddings []Embedding `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Where           *Where      `json:"where,omitempty"`
	WhereDocument   *Where      `json:"where_document,omitempty"`
	Include         []Include   `json:"include"`
}

type deleteRequest struct {
	IDs           []string `json:"ids,omitempty"`
	Where         *Where   `json:"where,omitempty"`
	WhereDocument *Where   `json:"where_document,omitempty"`
}

// getResponse is the column-oriented Get payload. Inner pointers are nil
// where the server stored no value.
type getResponse struct {
	IDs        []string    `json:"ids"`
	Embeddings []Embedding `json:"embeddings"`
	Documents  []*string   `json:"documents"`
	Metadatas  []Metadata  `json:"metadatas"`
	URIs       []*string   `json:"uris"`
	Include    []Include   `json:"include"`
}

type queryResponse struct {
	IDs        [][]string    `json:"ids"`
	Embeddings [][]Embedding `json:"embeddings"`
	Documents  [][]*string   `json:"documents"`
	Metadatas  [][]Metadata  `json:"metadatas"`
	URIs       [][]*string   `json:"uris"`
	Distances  [][]*float32  `json:"distances"`
	Include    []Include     `json:"include"`
}

type heartbeatResponse struct {
	Heartbeat uint64 `json:"nanosecond heartbeat"`
}
