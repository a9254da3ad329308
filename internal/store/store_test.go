package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/cryptan/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndGetRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := model.Run{
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:     "ex2.txt",
		MinLength:  1,
		MaxLength:  3,
		Letters:    120,
		BestLength: 2,
		Key:        "ab",
		Preview:    "hello",
		Lengths: []model.LengthScore{
			{Length: 1, AverageIOC: 0.04, Score: 0.025, ClassIOC: []float64{0.04}},
			{Length: 2, AverageIOC: 0.066, Score: 0.001, ClassIOC: []float64{0.065, 0.067}},
			{Length: 3, AverageIOC: 0.045, Score: 0.02, ClassIOC: []float64{0.04, 0.05, 0.045}},
		},
	}
	id, err := st.InsertRun(ctx, run)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}

	got, err := st.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.ID != id || got.Key != "ab" || got.BestLength != 2 || got.Source != "ex2.txt" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Fatalf("expected created_at %v, got %v", run.CreatedAt, got.CreatedAt)
	}
	if len(got.Lengths) != 3 {
		t.Fatalf("expected 3 lengths, got %d", len(got.Lengths))
	}
	second := got.Lengths[1]
	if second.Length != 2 || second.AverageIOC != 0.066 || len(second.ClassIOC) != 2 || second.ClassIOC[1] != 0.067 {
		t.Fatalf("unexpected length entry: %+v", second)
	}
}

func TestGetRunNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetRun(context.Background(), 42); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRunsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sources := []string{"a.txt", "b.txt", "a.txt", "a.txt"}
	for i, src := range sources {
		_, err := st.InsertRun(ctx, model.Run{
			CreatedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
			Source:     src,
			MinLength:  1,
			MaxLength:  5,
			BestLength: i + 1,
			Key:        "k",
		})
		if err != nil {
			t.Fatalf("insert run %d: %v", i, err)
		}
	}

	all, err := st.ListRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 4 || all[0].BestLength != 1 || all[3].BestLength != 4 {
		t.Fatalf("unexpected runs: %+v", all)
	}
	if all[0].Lengths != nil {
		t.Fatalf("expected list to omit per-length detail")
	}

	bySource, err := st.ListRuns(ctx, model.HistoryConfig{Source: "a.txt", Last: 2})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(bySource) != 2 || bySource[0].BestLength != 3 || bySource[1].BestLength != 4 {
		t.Fatalf("unexpected filtered runs: %+v", bySource)
	}

	since := base.Add(36 * time.Hour)
	recent, err := st.ListRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 runs since %v, got %d", since, len(recent))
	}
}
