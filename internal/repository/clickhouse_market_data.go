package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	pkgch "StockCast/pkg/clickhouse"
	applogger "StockCast/pkg/logger"
)

// CHMarketData reads daily bars from <db>.daily_bars.
type CHMarketData struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHMarketData(ch *pkgch.Client, l *applogger.Logger) *CHMarketData {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHMarketData{db: ch.DB(), table: ch.Database() + ".daily_bars", l: l}
}

// DailyBarsSchema returns the DDL for the bars table in database db.
func DailyBarsSchema(db string) []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		`CREATE TABLE IF NOT EXISTS ` + db + `.daily_bars (
            symbol LowCardinality(String),
            day    Date,
            open   Float64,
            high   Float64,
            low    Float64,
            close  Float64,
            volume Float64
        ) ENGINE = ReplacingMergeTree ORDER BY (symbol, day)`,
	}
}

func (s *CHMarketData) Bars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT day, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND day >= ? AND day < ?
        ORDER BY day ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		s.l.Error("clickhouse daily_bars query error",
			applogger.String("table", s.table),
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query bars %s: %w", ticker, err)
	}
	defer rows.Close()

	out, err := scanBars(rows)
	if err != nil {
		s.l.Error("clickhouse daily_bars scan error",
			applogger.String("table", s.table),
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("scan bars %s: %w", ticker, err)
	}
	s.l.Debug("clickhouse daily_bars ok",
		applogger.String("ticker", ticker),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	if len(out) == 0 {
		return nil, fmt.Errorf("bars %s: %w", ticker, models.ErrNoData)
	}
	return out, nil
}

type rowIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBars(rows rowIter) ([]models.Bar, error) {
	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Date = b.Date.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
