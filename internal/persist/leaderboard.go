package persist

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLen matches the name column of the leaderboard table, in runes.
const MaxNameLen = 64

// ErrInvalidName is returned for player names either backend cannot hold.
var ErrInvalidName = errors.New("leaderboard: name must be 1-64 characters with no ';' or newline")

// Entry is one finished game.
type Entry struct {
	Name   string
	Time   time.Time
	Score  int
	Reason int   // 0 = player died, 1 = player quit
	Ticks  int64 // simulation ticks played
}

// Leaderboard receives final scores and reports standings. Entries are
// ordered by score, highest first; equal scores keep submission order.
type Leaderboard interface {
	// Submit records e and returns its 0-based rank.
	Submit(ctx context.Context, e Entry) (int, error)
	// Top returns up to n best entries.
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

func validName(name string) bool {
	return name != "" &&
		utf8.RuneCountInString(name) <= MaxNameLen &&
		!strings.ContainsAny(name, ";\r\n")
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Submit(context.Context, Entry) (int, error) { return -1, nil }
func (Nop) Top(context.Context, int) ([]Entry, error)  { return nil, nil }
func (Nop) Close() error                               { return nil }
