package usecase

import (
	"context"
	"testing"
)

func TestRetrainJobTrainsSymbol(t *testing.T) {
	market := &fakeMarket{price: 120}
	store := newMemArtifactStore()
	trainer := NewTrainer(market, store, nil, nil)
	job := NewRetrainJob(trainer, nil)

	if job.Type() != RetrainMessageType {
		t.Fatalf("job type = %q, want %q", job.Type(), RetrainMessageType)
	}

	if err := job.Handle(context.Background(), RetrainPayload{Symbol: "AAPL"}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !store.Exists("AAPL") {
		t.Fatal("expected artifact after retrain job")
	}
}

func TestRetrainJobDecodesMapPayload(t *testing.T) {
	market := &fakeMarket{price: 120}
	store := newMemArtifactStore()
	trainer := NewTrainer(market, store, nil, nil)
	job := NewRetrainJob(trainer, nil)

	// Payloads arrive as decoded JSON maps off the queue.
	payload := map[string]interface{}{"symbol": "TCS.NS"}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !store.Exists("TCS.NS") {
		t.Fatalf("expected artifact for TCS.NS")
	}
}

func TestRetrainJobRejectsBadPayload(t *testing.T) {
	market := &fakeMarket{price: 120}
	store := newMemArtifactStore()
	trainer := NewTrainer(market, store, nil, nil)
	job := NewRetrainJob(trainer, nil)

	if err := job.Handle(context.Background(), 42); err == nil {
		t.Fatal("expected error for non-decodable payload")
	}
}
