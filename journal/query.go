// journal/query.go
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/pipval/instrument"
	"github.com/rustyeddy/pipval/settlement"
)

const tradeColumns = `trade_id, symbol, side, status, quantity, entry_price, exit_price, stop_loss, take_profit,
	fees, commission, open_time, close_time, profit_loss, risk_reward_ratio, notes, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var (
		rec                    TradeRecord
		side, status           string
		exit, stop, target, rr sql.NullFloat64
		closeTime              sql.NullTime
	)
	err := s.Scan(
		&rec.ID, &rec.Symbol, &side, &status, &rec.Quantity, &rec.EntryPrice,
		&exit, &stop, &target,
		&rec.Fees, &rec.Commission, &rec.OpenTime, &closeTime,
		&rec.ProfitLoss, &rr, &rec.Notes, &rec.UpdatedAt,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Side = settlement.Side(side)
	rec.Status = settlement.Status(status)
	rec.ExitPrice = floatPtr(exit)
	rec.StopLoss = floatPtr(stop)
	rec.TakeProfit = floatPtr(target)
	rec.RiskRewardRatio = floatPtr(rr)
	if closeTime.Valid {
		rec.CloseTime = closeTime.Time
	}
	return rec, nil
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, id string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, id)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("%w: %q", ErrTradeNotFound, id)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns matching trades ordered by open time.
func (j *SQLite) ListTrades(ctx context.Context, f Filter) ([]TradeRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, instrument.Normalize(f.Symbol))
	}
	if !f.ClosedFrom.IsZero() {
		where = append(where, "close_time >= ?")
		args = append(args, f.ClosedFrom.UTC())
	}
	if !f.ClosedTo.IsZero() {
		where = append(where, "close_time < ?")
		args = append(args, f.ClosedTo.UTC())
	}

	q := `SELECT ` + tradeColumns + ` FROM trades`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY open_time ASC, trade_id ASC`

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary aggregates realized results over a set of trades.
type Summary struct {
	Trades       int
	Wins         int
	Losses       int
	GrossProfit  float64
	GrossLoss    float64 // positive
	NetPL        float64
	ProfitFactor float64 // 0 when there are no losses
}

// Summarize folds closed trades in recs into a Summary.
func Summarize(recs []TradeRecord) Summary {
	var s Summary
	for _, r := range recs {
		if r.Status != settlement.Closed {
			continue
		}
		s.Trades++
		s.NetPL += r.ProfitLoss
		switch {
		case r.ProfitLoss > 0:
			s.Wins++
			s.GrossProfit += r.ProfitLoss
		case r.ProfitLoss < 0:
			s.Losses++
			s.GrossLoss -= r.ProfitLoss
		}
	}
	if s.GrossLoss > 0 {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	}
	return s
}
