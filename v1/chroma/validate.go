package chroma

import (
	"encoding/json"
	"fmt"
)

// validateEntries checks an Add/Upsert/Update batch before any embedding or
// network call. requireContent is set for Add and Upsert, which need either
// embeddings or documents.
func validateEntries(op string, e Entries, requireContent bool) error {
	if len(e.IDs) == 0 {
		return configError(op, "at least one id is required")
	}
	if err := validateIDs(op, e.IDs, false); err != nil {
		return err
	}

	n := len(e.IDs)
	columns := []struct {
		name string
		set  bool
		len  int
	}{
		{"embeddings", e.Embeddings != nil, len(e.Embeddings)},
		{"documents", e.Documents != nil, len(e.Documents)},
		{"metadatas", e.Metadatas != nil, len(e.Metadatas)},
		{"uris", e.URIs != nil, len(e.URIs)},
	}
	for _, col := range columns {
		if col.set && col.len != n {
			return configError(op, fmt.Sprintf("%d %s for %d ids", col.len, col.name, n))
		}
	}

	if requireContent && e.Embeddings == nil && e.Documents == nil {
		return configError(op, "embeddings or documents are required")
	}
	for i, v := range e.Embeddings {
		if len(v) == 0 {
			return configError(op, fmt.Sprintf("embedding for id %q is empty", e.IDs[i]))
		}
	}
	for i, m := range e.Metadatas {
		if err := validateMetadata(m); err != nil {
			return wrapError(KindConfiguration, op, fmt.Sprintf("metadata for id %q", e.IDs[i]), err)
		}
	}
	return nil
}

// validateIDs rejects empty and duplicate ids. An empty list is accepted
// when allowEmpty is set.
func validateIDs(op string, ids []string, allowEmpty bool) error {
	if len(ids) == 0 {
		if allowEmpty {
			return nil
		}
		return configError(op, "at least one id is required")
	}

	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if id == "" {
			return configError(op, fmt.Sprintf("id at position %d is empty", i))
		}
		if _, dup := seen[id]; dup {
			return configError(op, fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// validateMetadata accepts string keys mapped to strings, booleans, numbers
// or nil.
func validateMetadata(m Metadata) error {
	for k, v := range m {
		if k == "" {
			return fmt.Errorf("metadata key is empty")
		}
		switch v.(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64, json.Number:
		default:
			return fmt.Errorf("metadata key %q has unsupported type %T", k, v)
		}
	}
	return nil
}

func validateFilters(op string, where, whereDocument *Where) error {
	if err := where.Validate(); err != nil {
		return wrapError(KindConfiguration, op, "invalid where filter", err)
	}
	if err := whereDocument.Validate(); err != nil {
		return wrapError(KindConfiguration, op, "invalid where_document filter", err)
	}
	return nil
}

// validateInclude rejects unknown columns. Distances only exist for queries.
func validateInclude(op string, include []Include, distances bool) error {
	for _, inc := range include {
		switch inc {
		case IncludeEmbeddings, IncludeDocuments, IncludeMetadatas, IncludeURIs:
		case IncludeDistances:
			if !distances {
				return configError(op, "distances can only be included in query results")
			}
		default:
			return configError(op, fmt.Sprintf("unknown include %q", inc))
		}
	}
	return nil
}

func includes(include []Include, want Include) bool {
	for _, inc := range include {
		if inc == want {
			return true
		}
	}
	return false
}
