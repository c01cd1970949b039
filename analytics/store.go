package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/eringen/folio/logger"
	"golang.org/x/sync/errgroup"
)

const topN = 10

// Store provides database operations for analytics. The visits, bot_visits
// and settings tables are created by the store package migrations.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store on an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	query, args, err := sq.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}
	var val string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// SaveVisit stores a new visit in the database.
func (s *Store) SaveVisit(ctx context.Context, v *Visit) error {
	query, args, err := sq.Insert("visits").
		Columns("visitor_id", "ip_hash", "browser", "os", "device", "path", "referrer", "timestamp").
		Values(v.VisitorID, v.IPHash, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// SaveBotVisit stores a new bot visit in the database.
func (s *Store) SaveBotVisit(ctx context.Context, bv *BotVisit) error {
	query, args, err := sq.Insert("bot_visits").
		Columns("bot_name", "ip_hash", "user_agent", "path", "timestamp").
		Values(bv.BotName, bv.IPHash, bv.UserAgent, bv.Path, bv.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func inRange(from, to time.Time) sq.And {
	return sq.And{sq.GtOrEq{"timestamp": from.UTC()}, sq.Lt{"timestamp": to.UTC()}}
}

// GetStats returns aggregated statistics for [from, to). The individual
// queries run concurrently.
func (s *Store) GetStats(ctx context.Context, from, to time.Time) (*Stats, error) {
	stats := &Stats{
		Period:        from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
		TopPages:      []PageStat{},
		BrowserStats:  []DimensionStat{},
		OSStats:       []DimensionStat{},
		DeviceStats:   []DimensionStat{},
		ReferrerStats: []DimensionStat{},
		DailyViews:    []DailyView{},
		TopBots:       []DimensionStat{},
	}
	where := inRange(from, to)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.count(ctx, sq.Select("COUNT(*)").From("visits").Where(where))
		if err != nil {
			return fmt.Errorf("count views: %w", err)
		}
		stats.TotalViews = n
		return nil
	})
	g.Go(func() error {
		n, err := s.count(ctx, sq.Select("COUNT(DISTINCT visitor_id)").From("visits").Where(where))
		if err != nil {
			return fmt.Errorf("count unique visitors: %w", err)
		}
		stats.UniqueVisitors = n
		return nil
	})
	g.Go(func() error {
		n, err := s.count(ctx, sq.Select("COUNT(*)").From("bot_visits").Where(where))
		if err != nil {
			return fmt.Errorf("count bot visits: %w", err)
		}
		stats.BotVisits = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.breakdown(ctx, "visits", "path", where)
		if err != nil {
			return fmt.Errorf("top pages: %w", err)
		}
		pages := make([]PageStat, len(rows))
		for i, r := range rows {
			pages[i] = PageStat{Path: r.Name, Views: r.Count}
		}
		stats.TopPages = pages
		return nil
	})
	dims := []struct {
		table, column string
		dst           *[]DimensionStat
		label         string
	}{
		{"visits", "browser", &stats.BrowserStats, "browser stats"},
		{"visits", "os", &stats.OSStats, "os stats"},
		{"visits", "device", &stats.DeviceStats, "device stats"},
		{"visits", "referrer", &stats.ReferrerStats, "referrer stats"},
		{"bot_visits", "bot_name", &stats.TopBots, "top bots"},
	}
	for _, d := range dims {
		g.Go(func() error {
			rows, err := s.breakdown(ctx, d.table, d.column, where)
			if err != nil {
				return fmt.Errorf("%s: %w", d.label, err)
			}
			*d.dst = rows
			return nil
		})
	}
	g.Go(func() error {
		query, args, err := sq.Select("substr(timestamp, 1, 10) AS day", "COUNT(*)").
			From("visits").
			Where(where).
			GroupBy("day").
			OrderBy("day").
			ToSql()
		if err != nil {
			return err
		}
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("daily views: %w", err)
		}
		defer rows.Close()
		days := []DailyView{}
		for rows.Next() {
			var d DailyView
			if err := rows.Scan(&d.Date, &d.Views); err != nil {
				return fmt.Errorf("daily views: %w", err)
			}
			days = append(days, d)
		}
		stats.DailyViews = days
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (s *Store) breakdown(ctx context.Context, table, column string, where sq.Sqlizer) ([]DimensionStat, error) {
	query, args, err := sq.Select(column, "COUNT(*) AS n").
		From(table).
		Where(where).
		GroupBy(column).
		OrderBy("n DESC", column).
		Limit(topN).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CleanupOldVisits removes visits and bot visits older than the retention
// period and returns how many rows were deleted.
func (s *Store) CleanupOldVisits(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	var total int64
	for _, table := range []string{"visits", "bot_visits"} {
		query, args, err := sq.Delete(table).Where(sq.Lt{"timestamp": cutoff}).ToSql()
		if err != nil {
			return total, err
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// RunCleanup deletes expired rows every interval until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, retentionDays int, interval time.Duration, log *logger.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.CleanupOldVisits(ctx, retentionDays)
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Msg("analytics cleanup failed")
				}
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("analytics cleanup")
			}
		}
	}
}
