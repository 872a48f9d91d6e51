package chroma

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Aleph-Alpha/chroma-go/v1/observability"
)

// Client is the entry point to a Chroma server. It holds the connection,
// authentication and tenant/database selection, and hands out Collection
// handles that share its transport.
//
// A Client is safe for concurrent use. Configure it with the With* builders
// before sharing it between goroutines.
type Client struct {
	cfg Config
	t   *transport
}

// NewClient validates cfg and returns a Client. It performs no network I/O;
// call Heartbeat to probe the server. cfg is copied, so later changes to it
// do not affect the client.
func NewClient(c *Config) (*Client, error) {
	if c == nil {
		return nil, configError("new client", "config is nil")
	}
	cfg := *c
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, t: t}, nil
}

// WithLogger sets the logger used for request-level debug output.
func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.t.logger = logger
	}
	return c
}

// WithObserver sets the observer notified after every operation.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.t.observer = observer
	return c
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to customise TLS
// or proxies. The configured timeout is not applied to the replacement.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		c.t.httpClient = httpClient
	}
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Heartbeat returns the server clock in nanoseconds.
func (c *Client) Heartbeat(ctx context.Context) (ns uint64, err error) {
	ctx, s := c.t.begin(ctx, "heartbeat", "", "")
	defer func() { err = s.end(0, err) }()

	var resp heartbeatResponse
	if err := c.t.do(ctx, "heartbeat", http.MethodGet, "/heartbeat", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Heartbeat, nil
}

// Version returns the server version string.
func (c *Client) Version(ctx context.Context) (version string, err error) {
	ctx, s := c.t.begin(ctx, "version", "", "")
	defer func() { err = s.end(0, err) }()

	if err := c.t.do(ctx, "version", http.MethodGet, "/version", nil, nil, &version); err != nil {
		return "", err
	}
	return version, nil
}

// Identity returns the identity the server resolved from the configured
// credentials. A wildcard tenant is reported as DefaultTenant.
func (c *Client) Identity(ctx context.Context) (identity *Identity, err error) {
	ctx, s := c.t.begin(ctx, "identity", "", "")
	defer func() { err = s.end(0, err) }()

	var resp Identity
	if err := c.t.do(ctx, "identity", http.MethodGet, "/auth/identity", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tenant == "*" {
		resp.Tenant = DefaultTenant
	}
	return &resp, nil
}

// ListCollections returns the collections in the configured database.
// A limit of zero means no limit.
func (c *Client) ListCollections(ctx context.Context, limit, offset int) (cols []*Collection, err error) {
	ctx, s := c.t.begin(ctx, "list_collections", "", "")
	defer func() { err = s.end(len(cols), err) }()

	if limit < 0 || offset < 0 {
		return nil, configError("list_collections", "limit and offset must not be negative")
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var models []collectionModel
	if err := c.t.do(ctx, "list_collections", http.MethodGet, c.t.databasePath("/collections"), query, nil, &models); err != nil {
		return nil, err
	}

	cols = make([]*Collection, 0, len(models))
	for _, m := range models {
		col, err := c.collectionFromModel("list_collections", m)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// GetCollection looks up a collection by name. A missing collection is
// reported as KindNotFound.
func (c *Client) GetCollection(ctx context.Context, name string) (col *Collection, err error) {
	ctx, s := c.t.begin(ctx, "get_collection", name, "")
	defer func() { err = s.end(0, err) }()

	if name == "" {
		return nil, configError("get_collection", "collection name is required")
	}

	var m collectionModel
	path := c.t.databasePath("/collections/" + url.PathEscape(name))
	if err := c.t.do(ctx, "get_collection", http.MethodGet, path, nil, nil, &m); err != nil {
		return nil, err
	}
	return c.collectionFromModel("get_collection", m)
}

// GetOrCreateCollection returns the named collection, creating it when
// absent. It is a single server request, so concurrent callers converge on
// one collection. metadata is only applied when the collection is created.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string, metadata Metadata) (*Collection, error) {
	return c.createCollection(ctx, "get_or_create_collection", name, metadata, true)
}

// CreateCollection creates a collection. With getOrCreate false an existing
// name is reported as KindConflict.
func (c *Client) CreateCollection(ctx context.Context, name string, metadata Metadata, getOrCreate bool) (*Collection, error) {
	return c.createCollection(ctx, "create_collection", name, metadata, getOrCreate)
}

func (c *Client) createCollection(ctx context.Context, op, name string, metadata Metadata, getOrCreate bool) (col *Collection, err error) {
	ctx, s := c.t.begin(ctx, op, name, "")
	defer func() { err = s.end(0, err) }()

	if name == "" {
		return nil, configError(op, "collection name is required")
	}
	if err := validateMetadata(metadata); err != nil {
		return nil, wrapError(KindConfiguration, op, "invalid collection metadata", err)
	}

	body := createCollectionRequest{Name: name, Metadata: metadata, GetOrCreate: getOrCreate}
	var m collectionModel
	if err := c.t.do(ctx, op, http.MethodPost, c.t.databasePath("/collections"), nil, body, &m); err != nil {
		return nil, err
	}
	return c.collectionFromModel(op, m)
}

// DeleteCollection drops the named collection and all its entries.
func (c *Client) DeleteCollection(ctx context.Context, name string) (err error) {
	ctx, s := c.t.begin(ctx, "delete_collection", name, "")
	defer func() { err = s.end(0, err) }()

	if name == "" {
		return configError("delete_collection", "collection name is required")
	}
	path := c.t.databasePath("/collections/" + url.PathEscape(name))
	return c.t.do(ctx, "delete_collection", http.MethodDelete, path, nil, nil, nil)
}

// CountCollections returns the number of collections in the database.
func (c *Client) CountCollections(ctx context.Context) (n int, err error) {
	ctx, s := c.t.begin(ctx, "count_collections", "", "")
	defer func() { err = s.end(0, err) }()

	if err := c.t.do(ctx, "count_collections", http.MethodGet, c.t.databasePath("/collections_count"), nil, nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Reset drops every collection on the server. It is refused unless
// Config.AllowReset is set; the server applies its own gate as well.
func (c *Client) Reset(ctx context.Context) (err error) {
	ctx, s := c.t.begin(ctx, "reset", "", "")
	defer func() { err = s.end(0, err) }()

	if !c.cfg.AllowReset {
		return configError("reset", "reset is disabled; set AllowReset to enable it")
	}

	var ok bool
	if err := c.t.do(ctx, "reset", http.MethodPost, "/reset", nil, nil, &ok); err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: KindServer, Op: "reset", Message: "server refused to reset"}
	}
	c.t.logger.WarnWithContext(ctx, "chroma server was reset", nil, map[string]interface{}{
		"url": c.cfg.URL,
	})
	return nil
}

func (c *Client) collectionFromModel(op string, m collectionModel) (*Collection, error) {
	if m.ID == "" || m.Name == "" {
		return nil, &Error{Kind: KindProtocol, Op: op, Message: "collection response is missing id or name"}
	}
	tenant, database := m.Tenant, m.Database
	if tenant == "" {
		tenant = c.cfg.Tenant
	}
	if database == "" {
		database = c.cfg.Database
	}
	return &Collection{
		id:        m.ID,
		name:      m.Name,
		metadata:  m.Metadata,
		tenant:    tenant,
		database:  database,
		dimension: m.Dimension,
		t:         c.t,
	}, nil
}
