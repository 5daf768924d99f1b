package persist

import (
	"context"
	"fmt"
)

// LeaderboardRepo stores entries in the PostgreSQL leaderboard table.
type LeaderboardRepo struct {
	db *DB
}

func NewLeaderboardRepo(db *DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// Submit inserts e and returns how many earlier-or-better rows precede it.
func (r *LeaderboardRepo) Submit(ctx context.Context, e Entry) (int, error) {
	if !validName(e.Name) {
		return -1, ErrInvalidName
	}
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO leaderboard (name, score, reason, ticks, played_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.Name, e.Score, e.Reason, e.Ticks, e.Time,
	).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("insert leaderboard: %w", err)
	}

	var rank int
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leaderboard
		 WHERE score > $1 OR (score = $1 AND id < $2)`,
		e.Score, id,
	).Scan(&rank)
	if err != nil {
		return -1, fmt.Errorf("rank leaderboard: %w", err)
	}
	return rank, nil
}

// Top returns up to n best entries.
func (r *LeaderboardRepo) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, score, reason, ticks, played_at
		 FROM leaderboard ORDER BY score DESC, id ASC LIMIT $1`, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var reason int16
		if err := rows.Scan(&e.Name, &e.Score, &reason, &e.Ticks, &e.Time); err != nil {
			return nil, err
		}
		e.Reason = int(reason)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LeaderboardRepo) Close() error {
	r.db.Close()
	return nil
}
