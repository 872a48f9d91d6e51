// Package vectordb provides a database-agnostic abstraction for vector
// similarity search.
//
// The package defines the [Service] interface together with backend-neutral
// request, result and filter types. Backends ship adapters; the chroma
// package provides one via chroma.NewAdapter.
//
// # Usage
//
// Depend only on the interface:
//
//	type SearchService struct {
//	    db vectordb.Service
//	}
//
//	func (s *SearchService) Related(ctx context.Context, vector []float32) ([]vectordb.SearchResult, error) {
//	    results, err := s.db.Search(ctx, vectordb.SearchRequest{
//	        CollectionName: "documents",
//	        Vector:         vector,
//	        TopK:           10,
//	        Filters: vectordb.NewFilterSet(
//	            vectordb.Must(vectordb.NewMatch("status", "published")),
//	            vectordb.MustNot(vectordb.NewMatchAny("lang", "de", "fr")),
//	        ),
//	    })
//	    if err != nil {
//	        return nil, err
//	    }
//	    return results[0], nil
//	}
//
// # Filters
//
// A [FilterSet] combines three clauses with AND:
//   - Must: every condition matches
//   - Should: at least one condition matches
//   - MustNot: no condition matches
//
// Conditions are exact matches, IN / NOT IN lists, and numeric or time
// ranges. FilterSet.Validate reports malformed conditions as errors.
//
// Filter sets round-trip through JSON, so they can be accepted directly in
// API request bodies.
package vectordb
