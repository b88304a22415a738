package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockMetrics/internal/domain/models"
	domrepo "StockMetrics/internal/domain/repository"
	pkgch "StockMetrics/pkg/clickhouse"
	applogger "StockMetrics/pkg/logger"
	"StockMetrics/pkg/util"
)

const historyTable = "price_history"

// HistorySchema creates the archive table. ReplacingMergeTree keeps the latest
// write per (symbol, interval, ts) so re-archiving an overlapping window is idempotent.
var HistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + historyTable + ` (
        symbol      LowCardinality(String),
        interval    LowCardinality(String),
        ts          DateTime64(3, 'UTC'),
        close       Float64,
        open        Nullable(Float64),
        high        Nullable(Float64),
        low         Nullable(Float64),
        volume      Nullable(Float64),
        currency    LowCardinality(String),
        source      LowCardinality(String),
        archived_at DateTime64(3, 'UTC')
    ) ENGINE = ReplacingMergeTree(archived_at)
    ORDER BY (symbol, interval, ts)`,
}

// CHHistoryArchive implements HistoryArchive backed by ClickHouse.
type CHHistoryArchive struct {
	db  *sql.DB
	l   *applogger.Logger
	now func() time.Time
}

func NewCHHistoryArchive(ch *pkgch.Client, l *applogger.Logger) *CHHistoryArchive {
	return &CHHistoryArchive{db: ch.DB(), l: l, now: time.Now}
}

// Save archives every point of series under its bar interval. Points with
// unparseable timestamps are skipped.
func (a *CHHistoryArchive) Save(ctx context.Context, symbol, interval string, series models.HistorySeries) error {
	if symbol == "" || interval == "" || len(series.Points) == 0 {
		return nil
	}
	start := time.Now()
	archivedAt := a.now().UTC()

	const chunkSize = 1000
	saved := 0
	for from := 0; from < len(series.Points); from += chunkSize {
		to := min(from+chunkSize, len(series.Points))

		values := make([]string, 0, to-from)
		args := make([]interface{}, 0, (to-from)*11)
		for _, p := range series.Points[from:to] {
			ts, ok := util.ParseTime(p.TS)
			if !ok {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, symbol, interval, ts.UTC(), p.Close,
				nullable(p.Open), nullable(p.High), nullable(p.Low), nullable(p.Volume),
				series.Currency, series.Source, archivedAt)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, interval, ts, close, open, high, low, volume, currency, source, archived_at) VALUES %s",
			historyTable, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			a.l.Error("clickhouse archive insert error",
				applogger.String("symbol", symbol),
				applogger.String("interval", interval),
				applogger.Int("rows", len(values)),
				applogger.Error(err),
			)
			return fmt.Errorf("archive history %s: %w", symbol, err)
		}
		saved += len(values)
	}

	a.l.Debug("clickhouse archive insert ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", saved),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// Load returns archived bars of one interval at or after from, ascending. A zero
// from reads everything.
func (a *CHHistoryArchive) Load(ctx context.Context, symbol, interval string, from time.Time) (models.HistorySeries, error) {
	const q = `
        SELECT ts, close, open, high, low, volume, currency, source
        FROM ` + historyTable + ` FINAL
        WHERE symbol = ? AND interval = ? AND ts >= ?
        ORDER BY ts ASC
    `
	rows, err := a.db.QueryContext(ctx, q, symbol, interval, from.UTC())
	if err != nil {
		return models.HistorySeries{}, fmt.Errorf("load archive %s: %w", symbol, err)
	}
	defer rows.Close()

	series := models.HistorySeries{Symbol: symbol, Points: make([]models.PricePoint, 0, 256), Delayed: true}
	for rows.Next() {
		var (
			ts                   time.Time
			p                    models.PricePoint
			open, high, low, vol sql.NullFloat64
			currency, label      string
		)
		if err := rows.Scan(&ts, &p.Close, &open, &high, &low, &vol, &currency, &label); err != nil {
			return models.HistorySeries{}, fmt.Errorf("scan archive row: %w", err)
		}
		p.TS = util.ISO(ts)
		p.Open, p.High, p.Low, p.Volume = fromNull(open), fromNull(high), fromNull(low), fromNull(vol)
		series.Points = append(series.Points, p)
		series.Currency = currency
		series.Source = label
	}
	if err := rows.Err(); err != nil {
		return models.HistorySeries{}, fmt.Errorf("rows: %w", err)
	}
	if series.Source != "" {
		series.Source += " (archived)"
	}
	return series, nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

var _ domrepo.HistoryArchive = (*CHHistoryArchive)(nil)
