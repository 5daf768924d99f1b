package persist

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileLeaderboard keeps entries in a text file, one per line:
//
//	<name>;<unix time>;<score>
//
// The whole file is rewritten, best score first, on every Submit.
type FileLeaderboard struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	log     *zap.Logger
}

// OpenFileLeaderboard loads path, creating an empty board if it is absent.
// Malformed lines are skipped with a warning.
func OpenFileLeaderboard(path string, log *zap.Logger) (*FileLeaderboard, error) {
	lb := &FileLeaderboard{path: path, log: log}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lb, nil
		}
		return nil, fmt.Errorf("read leaderboard %s: %w", path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			log.Warn("skip leaderboard line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		lb.entries = append(lb.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan leaderboard %s: %w", path, err)
	}
	sort.SliceStable(lb.entries, func(i, j int) bool { return lb.entries[i].Score > lb.entries[j].Score })
	return lb, nil
}

func parseEntry(line string) (Entry, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 3 {
		return Entry{}, fmt.Errorf("want 3 fields, got %d", len(parts))
	}
	sec, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("time: %w", err)
	}
	score, err := strconv.Atoi(parts[2])
	if err != nil {
		return Entry{}, fmt.Errorf("score: %w", err)
	}
	return Entry{Name: parts[0], Time: time.Unix(sec, 0), Score: score}, nil
}

// Submit inserts e after every entry scoring at least as much and saves.
func (lb *FileLeaderboard) Submit(_ context.Context, e Entry) (int, error) {
	if !validName(e.Name) {
		return -1, ErrInvalidName
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()

	rank := sort.Search(len(lb.entries), func(i int) bool { return lb.entries[i].Score < e.Score })
	lb.entries = append(lb.entries, Entry{})
	copy(lb.entries[rank+1:], lb.entries[rank:])
	lb.entries[rank] = e

	if err := lb.saveLocked(); err != nil {
		return -1, err
	}
	lb.log.Info("score recorded", zap.String("name", e.Name), zap.Int("score", e.Score), zap.Int("rank", rank))
	return rank, nil
}

// Top returns up to n best entries.
func (lb *FileLeaderboard) Top(_ context.Context, n int) ([]Entry, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if n > len(lb.entries) || n < 0 {
		n = len(lb.entries)
	}
	return append([]Entry(nil), lb.entries[:n]...), nil
}

func (lb *FileLeaderboard) Close() error { return nil }

// saveLocked writes to a temporary file and renames it over the board.
func (lb *FileLeaderboard) saveLocked() error {
	var buf bytes.Buffer
	for _, e := range lb.entries {
		fmt.Fprintf(&buf, "%s;%d;%d\n", e.Name, e.Time.Unix(), e.Score)
	}
	dir := filepath.Dir(lb.path)
	tmp, err := os.CreateTemp(dir, ".leaderboard-*")
	if err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), lb.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}
