package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestFileLeaderboardRanks(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "leaderboard.txt")
	lb, err := OpenFileLeaderboard(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	submits := []struct {
		name  string
		score int
		rank  int
	}{
		{"ann", 50, 0},
		{"bob", 80, 0},
		{"cid", 50, 2},
		{"dee", 10, 3},
	}
	for _, s := range submits {
		rank, err := lb.Submit(ctx, Entry{Name: s.name, Time: time.Unix(1700000000, 0), Score: s.score})
		if err != nil {
			t.Fatalf("submit %s: %v", s.name, err)
		}
		if rank != s.rank {
			t.Fatalf("submit %s: expected rank %d, got %d", s.name, s.rank, rank)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "bob;1700000000;80\nann;1700000000;50\ncid;1700000000;50\ndee;1700000000;10\n"
	if string(raw) != want {
		t.Fatalf("unexpected file:\n%s", raw)
	}

	reopened, err := OpenFileLeaderboard(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	top, _ := reopened.Top(ctx, 2)
	if len(top) != 2 || top[0].Name != "bob" || top[1].Name != "ann" {
		t.Fatalf("unexpected top entries %+v", top)
	}
}

func TestFileLeaderboardSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.txt")
	body := strings.Join([]string{
		"ann;1;5",
		"garbage",
		"bob;x;7",
		"",
		"cid;2;9",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	lb, err := OpenFileLeaderboard(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	top, _ := lb.Top(context.Background(), -1)
	if len(top) != 2 || top[0].Name != "cid" {
		t.Fatalf("unexpected entries %+v", top)
	}
}

func TestFileLeaderboardRejectsSeparator(t *testing.T) {
	lb, err := OpenFileLeaderboard(filepath.Join(t.TempDir(), "lb.txt"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lb.Submit(context.Background(), Entry{Name: "a;b", Score: 1}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestFileLeaderboardNameLength(t *testing.T) {
	ctx := context.Background()
	lb, err := OpenFileLeaderboard(filepath.Join(t.TempDir(), "lb.txt"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	long := strings.Repeat("é", MaxNameLen+1)
	if _, err := lb.Submit(ctx, Entry{Name: long, Score: 1}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for %d runes, got %v", MaxNameLen+1, err)
	}
	fits := strings.Repeat("é", MaxNameLen)
	if _, err := lb.Submit(ctx, Entry{Name: fits, Time: time.Now(), Score: 1}); err != nil {
		t.Fatalf("%d-rune name rejected: %v", MaxNameLen, err)
	}
	top, err := lb.Top(ctx, 1)
	if err != nil || len(top) != 1 || top[0].Name != fits {
		t.Fatalf("expected the long name to round-trip, got %v (%v)", top, err)
	}
}
