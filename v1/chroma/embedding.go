package chroma

import (
	"context"
	"fmt"
)

// EmbeddingFunction computes one vector per input text, in input order.
// Implementations must not reorder, drop or deduplicate inputs, and should
// batch remote calls internally; the client calls Embed once per batch.
//
// The embedding package provides an OpenAI-compatible implementation.
//
//go:generate mockgen -source=embedding.go -destination=mock_embedding.go -package=chroma
type EmbeddingFunction interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingFunc adapts an ordinary function to EmbeddingFunction.
type EmbeddingFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls f(ctx, texts).
func (f EmbeddingFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// embedTexts runs ef over texts and checks the result lines up 1:1 with
// the inputs. Any failure is reported as KindEmbedding.
func embedTexts(ctx context.Context, op string, ef EmbeddingFunction, texts []string) ([]Embedding, error) {
	vectors, err := ef.Embed(ctx, texts)
	if err != nil {
		return nil, wrapError(KindEmbedding, op, "embedding provider failed", err)
	}
	if len(vectors) != len(texts) {
		return nil, &Error{
			Kind:    KindEmbedding,
			Op:      op,
			Message: fmt.Sprintf("embedding provider returned %d vectors for %d texts", len(vectors), len(texts)),
		}
	}

	out := make([]Embedding, len(vectors))
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, &Error{
				Kind:    KindEmbedding,
				Op:      op,
				Message: fmt.Sprintf("embedding provider returned an empty vector at index %d", i),
			}
		}
		out[i] = v
	}
	return out, nil
}
