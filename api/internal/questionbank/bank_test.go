package questionbank

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	question string
	err      error
	added    []string
}

func (f *fakeRepo) Random(context.Context) (string, error) { return f.question, f.err }
func (f *fakeRepo) Add(_ context.Context, q string) error {
	f.added = append(f.added, q)
	return nil
}

func TestRandomWithoutRepoUsesSeed(t *testing.T) {
	b := New(nil)
	for i := 0; i < 10; i++ {
		if q := b.Random(context.Background()); q == "" {
			t.Fatal("seed question must never be empty")
		}
	}
}

func TestRandomPrefersRepo(t *testing.T) {
	b := New(&fakeRepo{question: "From the bank?"})
	if q := b.Random(context.Background()); q != "From the bank?" {
		t.Errorf("got %q", q)
	}
}

func TestRandomFallsBackOnRepoError(t *testing.T) {
	b := New(&fakeRepo{err: errors.New("db down")})
	if q := b.Random(context.Background()); q == "" {
		t.Error("repo failure must fall back to the seed list")
	}
}

func TestRememberIsBestEffort(t *testing.T) {
	r := &fakeRepo{}
	b := New(r)
	b.Remember(context.Background(), "New question")
	if len(r.added) != 1 || r.added[0] != "New question" {
		t.Errorf("added = %v", r.added)
	}
	// Nil repo and empty questions are no-ops.
	New(nil).Remember(context.Background(), "x")
	b.Remember(context.Background(), "")
	if len(r.added) != 1 {
		t.Errorf("added = %v", r.added)
	}
}
