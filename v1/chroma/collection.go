package chroma

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultNResults is the number of matches per query when QueryOptions
// leaves NResults at zero.
const DefaultNResults = 10

// Collection is a handle on one server-side collection. It holds only
// identifying data and a reference to the client transport, so it is cheap
// to copy and safe to use from many goroutines. Nothing is cached: every
// call is a fresh round trip.
type Collection struct {
	id        string
	name      string
	metadata  Metadata
	tenant    string
	database  string
	dimension *int

	t  *transport
	ef EmbeddingFunction
}

// ID returns the server-assigned identifier.
func (c *Collection) ID() string { return c.id }

// Name returns the collection name as of the call that produced the handle.
func (c *Collection) Name() string { return c.name }

// Metadata returns a copy of the collection metadata.
func (c *Collection) Metadata() Metadata {
	if c.metadata == nil {
		return nil
	}
	out := make(Metadata, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}

// Tenant returns the tenant the collection belongs to.
func (c *Collection) Tenant() string { return c.tenant }

// Database returns the database the collection belongs to.
func (c *Collection) Database() string { return c.database }

// Dimension returns the embedding dimension the server has fixed for the
// collection, or 0 before the first insert.
func (c *Collection) Dimension() int {
	if c.dimension == nil {
		return 0
	}
	return *c.dimension
}

// WithEmbeddingFunction returns a copy of the handle that falls back to ef
// whenever a call needs embeddings and passes no provider of its own.
func (c *Collection) WithEmbeddingFunction(ef EmbeddingFunction) *Collection {
	cp := *c
	cp.ef = ef
	return &cp
}

func (c *Collection) path(suffix string) string {
	return c.t.databasePath("/collections/" + url.PathEscape(c.id) + suffix)
}

func (c *Collection) provider(ef EmbeddingFunction) EmbeddingFunction {
	if ef != nil {
		return ef
	}
	return c.ef
}

// Add inserts new entries. If any id already exists nothing is written and
// Add returns a KindConflict error. Chroma itself skips duplicate ids
// silently, so Add reads the ids back first; a concurrent writer can still
// slip in between that read and the insert.
//
// When entries carries documents but no embeddings, ef (or the collection
// default) computes them in one call before anything is sent.
func (c *Collection) Add(ctx context.Context, entries Entries, ef EmbeddingFunction) error {
	return c.write(ctx, "add", entries, ef, true)
}

// Upsert inserts entries or replaces those whose id exists. Repeating the
// same Upsert leaves the collection unchanged.
func (c *Collection) Upsert(ctx context.Context, entries Entries, ef EmbeddingFunction) error {
	return c.write(ctx, "upsert", entries, ef, true)
}

// Update modifies existing entries. Only the columns present in entries are
// changed. If any id is unknown nothing is written and Update returns a
// KindNotFound error. As with Add, the ids are checked with a read before
// the write because Chroma ignores unknown ids.
func (c *Collection) Update(ctx context.Context, entries Entries, ef EmbeddingFunction) error {
	return c.write(ctx, "update", entries, ef, false)
}

func (c *Collection) write(ctx context.Context, op string, entries Entries, ef EmbeddingFunction, requireContent bool) (err error) {
	ctx, s := c.t.begin(ctx, op, c.name, c.id)
	defer func() { err = s.end(len(entries.IDs), err) }()

	if err := validateEntries(op, entries, requireContent); err != nil {
		return err
	}

	req := entriesRequest{
		IDs:        entries.IDs,
		Embeddings: entries.Embeddings,
		Documents:  entries.Documents,
		Metadatas:  entries.Metadatas,
		URIs:       entries.URIs,
	}

	if req.Embeddings == nil && req.Documents != nil {
		provider := c.provider(ef)
		if provider == nil {
			return configError(op, "documents without embeddings require an embedding function")
		}
		vectors, err := embedTexts(ctx, op, provider, entries.Documents)
		if err != nil {
			return err
		}
		req.Embeddings = vectors
	}

	switch op {
	case "add":
		existing, err := c.existingIDs(ctx, op, entries.IDs)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &Error{Kind: KindConflict, Op: op, Message: "ids already exist: " + strings.Join(existing, ", ")}
		}
	case "update":
		existing, err := c.existingIDs(ctx, op, entries.IDs)
		if err != nil {
			return err
		}
		if missing := missingIDs(entries.IDs, existing); len(missing) > 0 {
			return &Error{Kind: KindNotFound, Op: op, Message: "ids do not exist: " + strings.Join(missing, ", ")}
		}
	}

	return c.t.do(ctx, op, http.MethodPost, c.path("/"+op), nil, req, nil)
}

// existingIDs returns which of ids are stored in the collection.
func (c *Collection) existingIDs(ctx context.Context, op string, ids []string) ([]string, error) {
	req := getRequest{IDs: ids, Include: []Include{}}
	var resp getResponse
	if err := c.t.do(ctx, op, http.MethodPost, c.path("/get"), nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

func missingIDs(ids, existing []string) []string {
	found := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// Delete removes every entry matching any of the selectors in opts. When
// opts selects nothing, Delete sends no request and deletes nothing; it is
// never treated as "delete all".
func (c *Collection) Delete(ctx context.Context, opts DeleteOptions) (err error) {
	ctx, s := c.t.begin(ctx, "delete", c.name, c.id)
	defer func() { err = s.end(len(opts.IDs), err) }()

	if len(opts.IDs) == 0 && opts.Where == nil && opts.WhereDocument == nil {
		return nil
	}
	if err := validateIDs("delete", opts.IDs, true); err != nil {
		return err
	}
	if err := validateFilters("delete", opts.Where, opts.WhereDocument); err != nil {
		return err
	}

	req := deleteRequest{IDs: opts.IDs, Where: opts.Where, WhereDocument: opts.WhereDocument}
	return c.t.do(ctx, "delete", http.MethodPost, c.path("/delete"), nil, req, nil)
}

// Get retrieves entries by id and/or filter.
//
// With no IDs and no filters, Get returns every entry in the collection,
// paged by Limit and Offset. Only the columns named in opts.Include are
// populated on the returned records.
func (c *Collection) Get(ctx context.Context, opts GetOptions) (result *GetResult, err error) {
	ctx, s := c.t.begin(ctx, "get", c.name, c.id)
	defer func() {
		n := 0
		if result != nil {
			n = len(result.Records)
		}
		err = s.end(n, err)
	}()

	if err := validateIDs("get", opts.IDs, true); err != nil {
		return nil, err
	}
	if err := validateFilters("get", opts.Where, opts.WhereDocument); err != nil {
		return nil, err
	}
	if (opts.Limit != nil && *opts.Limit < 0) || (opts.Offset != nil && *opts.Offset < 0) {
		return nil, configError("get", "limit and offset must not be negative")
	}
	include := opts.Include
	if include == nil {
		include = defaultGetInclude
	}
	if err := validateInclude("get", include, false); err != nil {
		return nil, err
	}

	req := getRequest{
		IDs:           opts.IDs,
		Where:         opts.Where,
		WhereDocument: opts.WhereDocument,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
		Include:       include,
	}
	var resp getResponse
	if err := c.t.do(ctx, "get", http.MethodPost, c.path("/get"), nil, req, &resp); err != nil {
		return nil, err
	}
	return buildGetResult("get", resp, include)
}

// Peek returns up to limit entries with their embeddings, documents and
// metadata. It is meant for quick inspection.
func (c *Collection) Peek(ctx context.Context, limit int) (*GetResult, error) {
	if limit <= 0 {
		limit = DefaultNResults
	}
	return c.Get(ctx, GetOptions{
		Limit:   &limit,
		Include: []Include{IncludeEmbeddings, IncludeDocuments, IncludeMetadatas},
	})
}

// Query runs a similarity search. Exactly one of QueryEmbeddings or
// QueryTexts must be set; texts are embedded with opts.EmbeddingFunction or
// the collection default. Each query yields at most NResults matches in
// the order the server returns them, closest first.
func (c *Collection) Query(ctx context.Context, opts QueryOptions) (result *QueryResult, err error) {
	ctx, s := c.t.begin(ctx, "query", c.name, c.id)
	defer func() {
		n := 0
		if result != nil {
			for _, r := range result.Results {
				n += len(r)
			}
		}
		err = s.end(n, err)
	}()

	hasEmbeddings, hasTexts := len(opts.QueryEmbeddings) > 0, len(opts.QueryTexts) > 0
	switch {
	case hasEmbeddings && hasTexts:
		return nil, configError("query", "set either query embeddings or query texts, not both")
	case !hasEmbeddings && !hasTexts:
		return nil, configError("query", "query embeddings or query texts are required")
	}
	if opts.NResults < 0 {
		return nil, configError("query", "n_results must not be negative")
	}
	nResults := opts.NResults
	if nResults == 0 {
		nResults = DefaultNResults
	}
	if err := validateFilters("query", opts.Where, opts.WhereDocument); err != nil {
		return nil, err
	}
	include := opts.Include
	if include == nil {
		include = defaultQueryInclude
	}
	if err := validateInclude("query", include, true); err != nil {
		return nil, err
	}

	embeddings := opts.QueryEmbeddings
	if hasTexts {
		provider := c.provider(opts.EmbeddingFunction)
		if provider == nil {
			return nil, configError("query", "query texts require an embedding function")
		}
		if embeddings, err = embedTexts(ctx, "query", provider, opts.QueryTexts); err != nil {
			return nil, err
		}
	} else {
		for i, e := range embeddings {
			if len(e) == 0 {
				return nil, configError("query", fmt.Sprintf("query embedding %d is empty", i))
			}
		}
	}

	req := queryRequest{
		QueryEmbeddings: embeddings,
		NResults:        nResults,
		Where:           opts.Where,
		WhereDocument:   opts.WhereDocument,
		Include:         include,
	}
	var resp queryResponse
	if err := c.t.do(ctx, "query", http.MethodPost, c.path("/query"), nil, req, &resp); err != nil {
		return nil, err
	}
	return buildQueryResult("query", resp, include, len(embeddings))
}

// Count returns the exact number of entries in the collection.
func (c *Collection) Count(ctx context.Context) (n int, err error) {
	ctx, s := c.t.begin(ctx, "count", c.name, c.id)
	defer func() { err = s.end(0, err) }()

	if err := c.t.do(ctx, "count", http.MethodGet, c.path("/count"), nil, nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Modify renames the collection and/or replaces its metadata. An empty name
// keeps the current name; nil metadata keeps the current metadata and an
// empty, non-nil Metadata clears it. Metadata is replaced as a whole, never
// merged.
//
// The receiver is left untouched; the returned handle reflects the change.
func (c *Collection) Modify(ctx context.Context, name string, metadata Metadata) (col *Collection, err error) {
	ctx, s := c.t.begin(ctx, "modify", c.name, c.id)
	defer func() { err = s.end(0, err) }()

	if name == "" && metadata == nil {
		return c, nil
	}
	if err := validateMetadata(metadata); err != nil {
		return nil, wrapError(KindConfiguration, "modify", "invalid collection metadata", err)
	}

	var req modifyCollectionRequest
	if metadata != nil {
		// an empty map clears the metadata, so it must still be sent
		req.NewMetadata = &metadata
	}
	if name != "" {
		req.NewName = &name
	}
	if err := c.t.do(ctx, "modify", http.MethodPut, c.path(""), nil, req, nil); err != nil {
		return nil, err
	}

	cp := *c
	if name != "" {
		cp.name = name
	}
	if metadata != nil {
		cp.metadata = metadata
	}
	return &cp, nil
}
