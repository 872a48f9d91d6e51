package chroma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/chroma-go/v1/vectordb"
)

const (
	// adapterBatchSize bounds the number of entries per upsert request.
	adapterBatchSize = 1000

	// adapterSearchConcurrency bounds parallel searches in one Search call.
	adapterSearchConcurrency = 4
)

// Adapter exposes a Client as a vectordb.Service.
//
// Collections are addressed by name. Every call resolves the name with one
// lookup request, since collection ids are never cached. Scores are
// reported as 1 - distance, which is the cosine similarity for collections
// using the cosine space.
type Adapter struct {
	client *Client
}

var _ vectordb.Service = (*Adapter)(nil)

// NewAdapter wraps client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

// Search runs the requests concurrently. A failed request leaves a nil
// slot and contributes to the joined error.
func (a *Adapter) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	results := make([][]vectordb.SearchResult, len(requests))
	errs := make([]error, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(adapterSearchConcurrency)
	for i, req := range requests {
		g.Go(func() error {
			res, err := a.search(gctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("search request %d (%s): %w", i, req.CollectionName, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (a *Adapter) search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if err := req.Filters.Validate(); err != nil {
		return nil, wrapError(KindConfiguration, "search", "invalid filters", err)
	}
	where, err := whereFromFilterSet(req.Filters)
	if err != nil {
		return nil, wrapError(KindConfiguration, "search", "invalid filters", err)
	}

	col, err := a.client.GetCollection(ctx, req.CollectionName)
	if err != nil {
		return nil, err
	}

	include := []Include{IncludeMetadatas, IncludeDocuments, IncludeDistances}
	if req.WithVectors {
		include = append(include, IncludeEmbeddings)
	}
	res, err := col.Query(ctx, QueryOptions{
		QueryEmbeddings: []Embedding{req.Vector},
		NResults:        req.TopK,
		Where:           where,
		Include:         include,
	})
	if err != nil {
		return nil, err
	}

	matches := res.Results[0]
	out := make([]vectordb.SearchResult, 0, len(matches))
	for _, m := range matches {
		r := vectordb.SearchResult{
			ID:             m.ID,
			Payload:        m.Metadata,
			Vector:         m.Embedding,
			CollectionName: req.CollectionName,
		}
		if m.Document != nil {
			r.Document = *m.Document
		}
		if m.Distance != nil {
			r.Distance = *m.Distance
			r.Score = 1 - *m.Distance
		}
		out = append(out, r)
	}
	return out, nil
}

// Insert upserts inputs in batches. Documents are sent only when at least
// one input carries one.
func (a *Adapter) Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error {
	if len(inputs) == 0 {
		return nil
	}
	col, err := a.client.GetCollection(ctx, collectionName)
	if err != nil {
		return err
	}

	for start := 0; start < len(inputs); start += adapterBatchSize {
		end := min(start+adapterBatchSize, len(inputs))
		if err := col.Upsert(ctx, entriesFromInputs(inputs[start:end]), nil); err != nil {
			return fmt.Errorf("upsert batch [%d:%d] into %s: %w", start, end, collectionName, err)
		}
		a.client.t.logger.DebugWithContext(ctx, "inserted batch", nil, map[string]interface{}{
			"collection": collectionName,
			"start":      start,
			"end":        end,
		})
	}
	return nil
}

func entriesFromInputs(inputs []vectordb.EmbeddingInput) Entries {
	e := Entries{
		IDs:        make([]string, len(inputs)),
		Embeddings: make([]Embedding, len(inputs)),
		Metadatas:  make([]Metadata, len(inputs)),
	}
	hasDocuments := false
	for i, in := range inputs {
		e.IDs[i] = in.ID
		e.Embeddings[i] = in.Vector
		e.Metadatas[i] = in.Payload
		if in.Document != "" {
			hasDocuments = true
		}
	}
	if hasDocuments {
		e.Documents = make([]string, len(inputs))
		for i, in := range inputs {
			e.Documents[i] = in.Document
		}
	}
	return e
}

// Delete removes entries by id. An empty id list deletes nothing.
func (a *Adapter) Delete(ctx context.Context, collectionName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	col, err := a.client.GetCollection(ctx, collectionName)
	if err != nil {
		return err
	}
	return col.Delete(ctx, DeleteOptions{IDs: ids})
}

// EnsureCollection is a single get-or-create request.
func (a *Adapter) EnsureCollection(ctx context.Context, name string, metadata map[string]any) error {
	_, err := a.client.GetOrCreateCollection(ctx, name, metadata)
	return err
}

// GetCollection returns the collection description including its entry count.
func (a *Adapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	col, err := a.client.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	n, err := col.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &vectordb.Collection{
		ID:         col.ID(),
		Name:       col.Name(),
		Metadata:   col.Metadata(),
		VectorSize: col.Dimension(),
		PointCount: uint64(n),
	}, nil
}

// ListCollections returns the names of all collections in the database.
func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	cols, err := a.client.ListCollections(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names, nil
}

// ── Filter Conversion ────────────────────────────────────────────────────────

// whereFromFilterSet converts a vectordb.FilterSet to a metadata Where.
// The clauses are combined with $and; MustNot conditions are negated
// individually since the filter grammar has no $not.
func whereFromFilterSet(fs *vectordb.FilterSet) (*Where, error) {
	if fs == nil {
		return nil, nil
	}

	var parts []*Where
	if fs.Must != nil {
		for _, c := range fs.Must.Conditions {
			w, err := whereFromCondition(c, false)
			if err != nil {
				return nil, err
			}
			parts = append(parts, w)
		}
	}
	if fs.Should != nil && len(fs.Should.Conditions) > 0 {
		var should []*Where
		for _, c := range fs.Should.Conditions {
			w, err := whereFromCondition(c, false)
			if err != nil {
				return nil, err
			}
			should = append(should, w)
		}
		parts = append(parts, Or(should...))
	}
	if fs.MustNot != nil {
		for _, c := range fs.MustNot.Conditions {
			w, err := whereFromCondition(c, true)
			if err != nil {
				return nil, err
			}
			parts = append(parts, w)
		}
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return And(parts...), nil
}

func whereFromCondition(c vectordb.FilterCondition, negate bool) (*Where, error) {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		if negate {
			return Ne(cond.Field, cond.Value), nil
		}
		return Eq(cond.Field, cond.Value), nil
	case *vectordb.MatchAnyCondition:
		if negate {
			return Nin(cond.Field, cond.Values...), nil
		}
		return In(cond.Field, cond.Values...), nil
	case *vectordb.MatchExceptCondition:
		if negate {
			return In(cond.Field, cond.Values...), nil
		}
		return Nin(cond.Field, cond.Values...), nil
	case *vectordb.NumericRangeCondition:
		r := cond.Range
		return rangeWhere(cond.Field, r.Gt, r.Gte, r.Lt, r.Lte, negate), nil
	case *vectordb.TimeRangeCondition:
		r := cond.Range
		return rangeWhere(cond.Field, unixSeconds(r.Gt), unixSeconds(r.Gte), unixSeconds(r.Lt), unixSeconds(r.Lte), negate), nil
	default:
		return nil, fmt.Errorf("unsupported filter condition %T", c)
	}
}

// rangeWhere ANDs the given bounds, or ORs their complements when negated.
func rangeWhere(field string, gt, gte, lt, lte *float64, negate bool) *Where {
	var bounds []*Where
	add := func(v *float64, op, inverse func(string, any) *Where) {
		if v == nil {
			return
		}
		if negate {
			bounds = append(bounds, inverse(field, *v))
			return
		}
		bounds = append(bounds, op(field, *v))
	}
	add(gt, Gt, Lte)
	add(gte, Gte, Lt)
	add(lt, Lt, Gte)
	add(lte, Lte, Gt)

	if negate {
		return Or(bounds...)
	}
	return And(bounds...)
}

func unixSeconds(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	v := float64(t.Unix())
	return &v
}
