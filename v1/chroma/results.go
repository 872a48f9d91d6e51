package chroma

import "fmt"

// buildGetResult turns the column-oriented Get payload into records. Only
// requested columns are read; a requested column whose length differs from
// the id list is a protocol violation.
func buildGetResult(op string, r getResponse, include []Include) (*GetResult, error) {
	n := len(r.IDs)
	if err := checkColumns(op, n, include, len(r.Embeddings), len(r.Documents), len(r.Metadatas), len(r.URIs), -1); err != nil {
		return nil, err
	}

	records := make([]Record, n)
	for i, id := range r.IDs {
		records[i] = assembleRecord(id, i, include, r.Embeddings, r.Documents, r.Metadatas, r.URIs)
	}
	return &GetResult{Records: records, Include: include}, nil
}

// buildQueryResult does the same per query. The server must answer every
// query vector it was sent.
func buildQueryResult(op string, r queryResponse, include []Include, queries int) (*QueryResult, error) {
	if len(r.IDs) != queries {
		return nil, &Error{
			Kind:    KindProtocol,
			Op:      op,
			Message: fmt.Sprintf("server returned %d result sets for %d queries", len(r.IDs), queries),
		}
	}

	outer := []struct {
		inc Include
		len int
	}{
		{IncludeEmbeddings, len(r.Embeddings)},
		{IncludeDocuments, len(r.Documents)},
		{IncludeMetadatas, len(r.Metadatas)},
		{IncludeURIs, len(r.URIs)},
		{IncludeDistances, len(r.Distances)},
	}
	for _, col := range outer {
		if includes(include, col.inc) && col.len != 0 && col.len != queries {
			return nil, &Error{
				Kind:    KindProtocol,
				Op:      op,
				Message: fmt.Sprintf("server returned %d %s sets for %d queries", col.len, col.inc, queries),
			}
		}
	}

	results := make([][]QueryRecord, queries)
	for q, ids := range r.IDs {
		embeddings := column(r.Embeddings, q)
		documents := column(r.Documents, q)
		metadatas := column(r.Metadatas, q)
		uris := column(r.URIs, q)
		distances := column(r.Distances, q)

		if err := checkColumns(op, len(ids), include, len(embeddings), len(documents), len(metadatas), len(uris), len(distances)); err != nil {
			return nil, err
		}

		matches := make([]QueryRecord, len(ids))
		for i, id := range ids {
			matches[i] = QueryRecord{Record: assembleRecord(id, i, include, embeddings, documents, metadatas, uris)}
			if includes(include, IncludeDistances) && i < len(distances) {
				matches[i].Distance = distances[i]
			}
		}
		results[q] = matches
	}
	return &QueryResult{Results: results, Include: include}, nil
}

// checkColumns verifies each requested, non-empty column has n elements.
// A distances length of -1 means the column does not apply.
func checkColumns(op string, n int, include []Include, embeddings, documents, metadatas, uris, distances int) error {
	cols := []struct {
		inc Include
		len int
	}{
		{IncludeEmbeddings, embeddings},
		{IncludeDocuments, documents},
		{IncludeMetadatas, metadatas},
		{IncludeURIs, uris},
		{IncludeDistances, distances},
	}
	for _, col := range cols {
		if col.len <= 0 || !includes(include, col.inc) {
			continue
		}
		if col.len != n {
			return &Error{
				Kind:    KindProtocol,
				Op:      op,
				Message: fmt.Sprintf("server returned %d %s for %d ids", col.len, col.inc, n),
			}
		}
	}
	return nil
}

func assembleRecord(id string, i int, include []Include, embeddings []Embedding, documents []*string, metadatas []Metadata, uris []*string) Record {
	rec := Record{ID: id}
	if includes(include, IncludeEmbeddings) && i < len(embeddings) {
		rec.Embedding = embeddings[i]
	}
	if includes(include, IncludeDocuments) && i < len(documents) {
		rec.Document = documents[i]
	}
	if includes(include, IncludeMetadatas) && i < len(metadatas) {
		rec.Metadata = metadatas[i]
	}
	if includes(include, IncludeURIs) && i < len(uris) {
		rec.URI = uris[i]
	}
	return rec
}

// column returns the q-th inner slice, or nil when the server omitted the
// column entirely.
func column[T any](cols [][]T, q int) []T {
	if q >= len(cols) {
		return nil
	}
	return cols[q]
}
