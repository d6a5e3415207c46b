package store

import (
	"database/sql"
	"time"
)

// GetQuery returns the cached output of a git query. found is false when the
// query has not been cached.
func (s *Store) GetQuery(kind, key string) (value string, found bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM query_cache WHERE kind = ? AND key = ?`, kind, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutQuery caches the output of a git query, replacing any previous entry.
func (s *Store) PutQuery(kind, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO query_cache (kind, key, value, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind, key) DO UPDATE SET value = excluded.value, created_at = excluded.created_at`,
		kind, key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// QueryCacheCount returns the number of cached query results per kind.
func (s *Store) QueryCacheCount() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT kind, COUNT(*) FROM query_cache GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// ClearQueryCache deletes all cached query results and returns how many were removed.
func (s *Store) ClearQueryCache() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM query_cache`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
