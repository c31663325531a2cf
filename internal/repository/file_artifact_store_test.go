package repository

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	domrepo "StockCast/internal/domain/repository"
)

func testArtifact(symbol string) *domrepo.Artifact {
	return &domrepo.Artifact{
		Symbol:          symbol,
		FeatureNames:    []string{"close", "sma_5", "sma_10", "rsi_14"},
		Weights:         []float64{0.981234567891234, -0.042, 0.0137, 1.25e-7},
		Intercept:       104.56789012345678,
		ScalerMeans:     []float64{101.2, 100.9, 100.4, 51.3},
		ScalerScales:    []float64{3.4, 2.9, 2.1, 11.7},
		TrainScore:      0.97,
		ValidationScore: 0.91,
		TrainedAt:       time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewFileArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	want := testArtifact("TCS.NS")
	if err := store.Save("TCS.NS", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load("TCS.NS")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadMissingModel(t *testing.T) {
	store, _ := NewFileArtifactStore(t.TempDir())
	if _, err := store.Load("AAPL"); !errors.Is(err, domrepo.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if store.Exists("AAPL") {
		t.Fatal("Exists should be false for missing artifact")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := NewFileArtifactStore(t.TempDir())
	first := testArtifact("INFY.NS")
	if err := store.Save("INFY.NS", first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := testArtifact("INFY.NS")
	second.Intercept = 999
	if err := store.Save("INFY.NS", second); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, err := store.Load("INFY.NS")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Intercept != 999 {
		t.Fatalf("intercept %v, want overwritten 999", got.Intercept)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := NewFileArtifactStore(t.TempDir())
	if err := store.Save("AAPL", testArtifact("AAPL")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete("AAPL"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("AAPL"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if store.Exists("AAPL") {
		t.Fatal("artifact should be gone")
	}
}

func TestConcurrentSaveLoadConsistent(t *testing.T) {
	store, _ := NewFileArtifactStore(t.TempDir())
	if err := store.Save("AAPL", testArtifact("AAPL")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				_ = store.Save("AAPL", testArtifact("AAPL"))
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				a, err := store.Load("AAPL")
				if err != nil {
					t.Errorf("load during writes: %v", err)
					return
				}
				if len(a.Weights) != 4 {
					t.Errorf("partial artifact observed: %+v", a)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSanitizedSymbolPath(t *testing.T) {
	store, _ := NewFileArtifactStore(t.TempDir())
	if err := store.Save("../evil/FOO", testArtifact("FOO")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.Exists("../evil/FOO") {
		t.Fatal("sanitized symbol should round-trip through Exists")
	}
}
