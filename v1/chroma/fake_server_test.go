package chroma

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeChroma is an in-memory stand-in for the Chroma v2 HTTP API. It
// implements enough of the server contract to exercise the client: strict
// add, all-or-nothing update, union delete, filters, L2 query ordering.
type fakeChroma struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	byName  map[string]*fakeCollection
	byID    map[string]*fakeCollection
	nextID  int
	created int

	requests atomic.Int64

	headerMu    sync.Mutex
	lastHeaders http.Header
}

type fakeCollection struct {
	id        string
	name      string
	metadata  map[string]any
	dimension *int
	order     []string
	records   map[string]*fakeRecord
}

type fakeRecord struct {
	embedding []float32
	document  *string
	metadata  map[string]any
	uri       *string
}

func newFakeChroma(t *testing.T) *fakeChroma {
	t.Helper()
	f := &fakeChroma{
		t:      t,
		byName: map[string]*fakeCollection{},
		byID:   map[string]*fakeCollection{},
	}

	mux := http.NewServeMux()
	db := "/api/v2/tenants/{tenant}/databases/{database}"
	mux.HandleFunc("GET /api/v2/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"nanosecond heartbeat": 1700000000000000000})
	})
	mux.HandleFunc("GET /api/v2/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "1.0.0")
	})
	mux.HandleFunc("GET /api/v2/auth/identity", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user_id": "", "tenant": "*", "databases": []string{"*"}})
	})
	mux.HandleFunc("POST /api/v2/reset", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.byName = map[string]*fakeCollection{}
		f.byID = map[string]*fakeCollection{}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, true)
	})
	mux.HandleFunc("GET "+db+"/collections", f.listCollections)
	mux.HandleFunc("POST "+db+"/collections", f.createCollection)
	mux.HandleFunc("GET "+db+"/collections_count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, len(f.byName))
	})
	mux.HandleFunc("GET "+db+"/collections/{name}", f.getCollection)
	mux.HandleFunc("DELETE "+db+"/collections/{name}", f.deleteCollection)
	mux.HandleFunc("PUT "+db+"/collections/{id}", f.modifyCollection)
	mux.HandleFunc("POST "+db+"/collections/{id}/add", f.write("add"))
	mux.HandleFunc("POST "+db+"/collections/{id}/upsert", f.write("upsert"))
	mux.HandleFunc("POST "+db+"/collections/{id}/update", f.write("update"))
	mux.HandleFunc("POST "+db+"/collections/{id}/delete", f.deleteRecords)
	mux.HandleFunc("POST "+db+"/collections/{id}/get", f.get)
	mux.HandleFunc("POST "+db+"/collections/{id}/query", f.query)
	mux.HandleFunc("GET "+db+"/collections/{id}/count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		col, ok := f.byID[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
			return
		}
		writeJSON(w, http.StatusOK, len(col.order))
	})

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.headerMu.Lock()
		f.lastHeaders = r.Header.Clone()
		f.headerMu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeChroma) URL() string { return f.server.URL }

func (f *fakeChroma) Requests() int64 { return f.requests.Load() }

func (f *fakeChroma) LastHeaders() http.Header {
	f.headerMu.Lock()
	defer f.headerMu.Unlock()
	return f.lastHeaders
}

func (f *fakeChroma) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// newTestClient returns a client pointed at a fresh fake server.
func newTestClient(t *testing.T) (*Client, *fakeChroma) {
	t.Helper()
	f := newFakeChroma(t)
	client, err := NewClient(FromURL(f.URL()))
	require.NoError(t, err)
	return client, f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, name, message string) {
	writeJSON(w, status, map[string]string{"error": name, "message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidArgumentError", err.Error())
		return false
	}
	return true
}

func (c *fakeCollection) model() map[string]any {
	return map[string]any{
		"id":        c.id,
		"name":      c.name,
		"metadata":  c.metadata,
		"tenant":    DefaultTenant,
		"database":  DefaultDatabase,
		"dimension": c.dimension,
	}
}

func (f *fakeChroma) listCollections(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	names = page(names, offset, limit)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		out = append(out, f.byName[name].model())
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeChroma) createCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string         `json:"name"`
		Metadata    map[string]any `json:"metadata"`
		GetOrCreate bool           `json:"get_or_create"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if col, ok := f.byName[req.Name]; ok {
		if !req.GetOrCreate {
			writeError(w, http.StatusConflict, "UniqueConstraintError", fmt.Sprintf("Collection %s already exists", req.Name))
			return
		}
		writeJSON(w, http.StatusOK, col.model())
		return
	}

	f.nextID++
	f.created++
	col := &fakeCollection{
		id:       fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID),
		name:     req.Name,
		metadata: req.Metadata,
		records:  map[string]*fakeRecord{},
	}
	f.byName[col.name] = col
	f.byID[col.id] = col
	writeJSON(w, http.StatusOK, col.model())
}

func (f *fakeChroma) getCollection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byName[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", fmt.Sprintf("Collection [%s] does not exist", r.PathValue("name")))
		return
	}
	writeJSON(w, http.StatusOK, col.model())
}

func (f *fakeChroma) deleteCollection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byName[r.PathValue("name")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", fmt.Sprintf("Collection [%s] does not exist", r.PathValue("name")))
		return
	}
	delete(f.byName, col.name)
	delete(f.byID, col.id)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeChroma) modifyCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewName     *string        `json:"new_name"`
		NewMetadata map[string]any `json:"new_metadata"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byID[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
		return
	}
	if req.NewName != nil && *req.NewName != col.name {
		if _, taken := f.byName[*req.NewName]; taken {
			writeError(w, http.StatusConflict, "UniqueConstraintError", "name already exists")
			return
		}
		delete(f.byName, col.name)
		col.name = *req.NewName
		f.byName[col.name] = col
	}
	if req.NewMetadata != nil {
		col.metadata = req.NewMetadata
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

type fakeEntries struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []*string        `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
	URIs       []*string        `json:"uris"`
}

func (f *fakeChroma) write(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fakeEntries
		if !decodeBody(w, r, &req) {
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		col, ok := f.byID[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
			return
		}

		// validate the whole batch before touching anything
		for i := range req.IDs {
			if i < len(req.Embeddings) {
				if col.dimension != nil && len(req.Embeddings[i]) != *col.dimension {
					writeError(w, http.StatusBadRequest, "InvalidDimensionException",
						fmt.Sprintf("expected dimension %d, got %d", *col.dimension, len(req.Embeddings[i])))
					return
				}
			}
		}

		// like Chroma, add skips existing ids and update skips unknown ones
		for i, id := range req.IDs {
			rec, exists := col.records[id]
			if (op == "add" && exists) || (op == "update" && !exists) {
				continue
			}
			if !exists || op == "upsert" {
				if !exists {
					col.order = append(col.order, id)
				}
				rec = &fakeRecord{}
				col.records[id] = rec
			}
			if i < len(req.Embeddings) {
				rec.embedding = req.Embeddings[i]
				if col.dimension == nil {
					d := len(req.Embeddings[i])
					col.dimension = &d
				}
			}
			if i < len(req.Documents) {
				rec.document = req.Documents[i]
			}
			if i < len(req.Metadatas) {
				rec.metadata = req.Metadatas[i]
			}
			if i < len(req.URIs) {
				rec.uri = req.URIs[i]
			}
		}
		writeJSON(w, http.StatusCreated, map[string]any{})
	}
}

type fakeFilter struct {
	IDs           []string       `json:"ids"`
	Where         map[string]any `json:"where"`
	WhereDocument map[string]any `json:"where_document"`
}

func (col *fakeCollection) matches(id string, ids []string, where, whereDocument map[string]any) bool {
	rec := col.records[id]
	if len(ids) > 0 && !containsString(ids, id) {
		return false
	}
	if where != nil && !matchWhere(where, rec.metadata) {
		return false
	}
	if whereDocument != nil && !matchDocument(whereDocument, rec.document) {
		return false
	}
	return true
}

func (f *fakeChroma) deleteRecords(w http.ResponseWriter, r *http.Request) {
	var req fakeFilter
	if !decodeBody(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byID[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
		return
	}

	kept := col.order[:0]
	for _, id := range col.order {
		if col.matches(id, req.IDs, req.Where, req.WhereDocument) {
			delete(col.records, id)
			continue
		}
		kept = append(kept, id)
	}
	col.order = kept
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeChroma) get(w http.ResponseWriter, r *http.Request) {
	var req struct {
		fakeFilter
		Limit   *int     `json:"limit"`
		Offset  *int     `json:"offset"`
		Include []string `json:"include"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byID[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
		return
	}

	var ids []string
	for _, id := range col.order {
		if col.matches(id, req.IDs, req.Where, req.WhereDocument) {
			ids = append(ids, id)
		}
	}
	offset, limit := 0, 0
	if req.Offset != nil {
		offset = *req.Offset
	}
	if req.Limit != nil {
		limit = *req.Limit
	}
	ids = page(ids, offset, limit)

	writeJSON(w, http.StatusOK, col.columns(ids, req.Include, nil))
}

func (f *fakeChroma) query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QueryEmbeddings [][]float32    `json:"query_embeddings"`
		NResults        int            `json:"n_results"`
		Where           map[string]any `json:"where"`
		WhereDocument   map[string]any `json:"where_document"`
		Include         []string       `json:"include"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	col, ok := f.byID[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "NotFoundError", "collection not found")
		return
	}

	out := map[string][]any{}
	for _, q := range req.QueryEmbeddings {
		if col.dimension != nil && len(q) != *col.dimension {
			writeError(w, http.StatusBadRequest, "InvalidDimensionException", "query dimension mismatch")
			return
		}
		type scored struct {
			id   string
			dist float32
		}
		var candidates []scored
		for _, id := range col.order {
			if col.matches(id, nil, req.Where, req.WhereDocument) {
				candidates = append(candidates, scored{id, l2(q, col.records[id].embedding)})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
		if len(candidates) > req.NResults {
			candidates = candidates[:req.NResults]
		}

		ids := make([]string, len(candidates))
		dists := make([]float32, len(candidates))
		for i, c := range candidates {
			ids[i], dists[i] = c.id, c.dist
		}
		cols := col.columns(ids, req.Include, dists)
		for k, v := range cols {
			if k == "include" {
				continue
			}
			out[k] = append(out[k], v)
		}
	}

	resp := map[string]any{"include": req.Include}
	for k, v := range out {
		resp[k] = v
	}
	writeJSON(w, http.StatusOK, resp)
}

// columns builds the column-oriented payload for ids. Columns not named in
// include are null.
func (col *fakeCollection) columns(ids []string, include []string, distances []float32) map[string]any {
	out := map[string]any{
		"ids":        ids,
		"embeddings": nil,
		"documents":  nil,
		"metadatas":  nil,
		"uris":       nil,
		"include":    include,
	}
	if ids == nil {
		out["ids"] = []string{}
	}
	for _, inc := range include {
		switch inc {
		case "embeddings":
			v := make([][]float32, len(ids))
			for i, id := range ids {
				v[i] = col.records[id].embedding
			}
			out["embeddings"] = v
		case "documents":
			v := make([]*string, len(ids))
			for i, id := range ids {
				v[i] = col.records[id].document
			}
			out["documents"] = v
		case "metadatas":
			v := make([]map[string]any, len(ids))
			for i, id := range ids {
				v[i] = col.records[id].metadata
			}
			out["metadatas"] = v
		case "uris":
			v := make([]*string, len(ids))
			for i, id := range ids {
				v[i] = col.records[id].uri
			}
			out["uris"] = v
		case "distances":
			out["distances"] = distances
		}
	}
	return out
}

func matchWhere(where map[string]any, md map[string]any) bool {
	for key, v := range where {
		switch key {
		case "$and", "$or":
			children, _ := v.([]any)
			matched := false
			for _, c := range children {
				m, _ := c.(map[string]any)
				ok := matchWhere(m, md)
				if key == "$and" && !ok {
					return false
				}
				matched = matched || ok
			}
			if key == "$or" && !matched {
				return false
			}
		default:
			cond, ok := v.(map[string]any)
			if !ok {
				cond = map[string]any{"$eq": v}
			}
			val, present := md[key]
			for op, operand := range cond {
				if !matchOperator(op, val, present, operand) {
					return false
				}
			}
		}
	}
	return true
}

func matchOperator(op string, val any, present bool, operand any) bool {
	switch op {
	case "$eq":
		return present && sameValue(val, operand)
	case "$ne":
		return !present || !sameValue(val, operand)
	case "$in", "$nin":
		list, _ := operand.([]any)
		found := false
		for _, o := range list {
			if present && sameValue(val, o) {
				found = true
			}
		}
		if op == "$in" {
			return found
		}
		return !found
	case "$gt", "$gte", "$lt", "$lte":
		a, okA := number(val)
		b, okB := number(operand)
		if !present || !okA || !okB {
			return false
		}
		switch op {
		case "$gt":
			return a > b
		case "$gte":
			return a >= b
		case "$lt":
			return a < b
		default:
			return a <= b
		}
	}
	return false
}

func matchDocument(where map[string]any, doc *string) bool {
	text := ""
	if doc != nil {
		text = *doc
	}
	for op, v := range where {
		switch op {
		case "$and", "$or":
			children, _ := v.([]any)
			matched := false
			for _, c := range children {
				m, _ := c.(map[string]any)
				ok := matchDocument(m, doc)
				if op == "$and" && !ok {
					return false
				}
				matched = matched || ok
			}
			if op == "$or" && !matched {
				return false
			}
		case "$contains":
			if !strings.Contains(text, fmt.Sprint(v)) {
				return false
			}
		case "$not_contains":
			if strings.Contains(text, fmt.Sprint(v)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func l2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

func page(ids []string, offset, limit int) []string {
	if offset >= len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
