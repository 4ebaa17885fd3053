package embeddings

import (
	"context"
	"testing"
)

func TestPadToTargetDimensions(t *testing.T) {
	vec := []float32{1, 2, 3}

	padded := PadToTargetDimensions(vec, 5)
	if len(padded) != 5 {
		t.Fatalf("padded length = %d, want 5", len(padded))
	}

	if padded[2] != 3 || padded[4] != 0 {
		t.Errorf("padded = %v, want original values then zeros", padded)
	}

	truncated := PadToTargetDimensions(vec, 2)
	if len(truncated) != 2 {
		t.Fatalf("truncated length = %d, want 2", len(truncated))
	}

	same := PadToTargetDimensions(vec, 3)
	if len(same) != 3 {
		t.Fatalf("same length = %d, want 3", len(same))
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider(0)

	a, err := p.GetEmbedding(context.Background(), "what is our churn benchmark")
	if err != nil {
		t.Fatalf("GetEmbedding() error = %v", err)
	}

	if len(a) != DefaultDimensions {
		t.Fatalf("embedding length = %d, want %d", len(a), DefaultDimensions)
	}

	b, err := p.GetEmbedding(context.Background(), "what is our churn benchmark")
	if err != nil {
		t.Fatalf("GetEmbedding() error = %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at index %d", i)
		}
	}

	c, _ := p.GetEmbedding(context.Background(), "a different question")

	identical := true

	for i := range a {
		if a[i] != c[i] {
			identical = false
			break
		}
	}

	if identical {
		t.Error("different texts produced identical embeddings")
	}
}
