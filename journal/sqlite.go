// journal/sqlite.go
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// SaveTrade inserts rec or replaces the row with the same id.
func (j *SQLite) SaveTrade(ctx context.Context, rec TradeRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, symbol, side, status, quantity, entry_price, exit_price, stop_loss, take_profit,
		 fees, commission, open_time, close_time, profit_loss, risk_reward_ratio, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id) DO UPDATE SET
			symbol = excluded.symbol,
			side = excluded.side,
			status = excluded.status,
			quantity = excluded.quantity,
			entry_price = excluded.entry_price,
			exit_price = excluded.exit_price,
			stop_loss = excluded.stop_loss,
			take_profit = excluded.take_profit,
			fees = excluded.fees,
			commission = excluded.commission,
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			profit_loss = excluded.profit_loss,
			risk_reward_ratio = excluded.risk_reward_ratio,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Symbol, string(rec.Side), string(rec.Status), rec.Quantity, rec.EntryPrice,
		nullFloat(rec.ExitPrice), nullFloat(rec.StopLoss), nullFloat(rec.TakeProfit),
		rec.Fees, rec.Commission, rec.OpenTime.UTC(), nullTime(rec.CloseTime),
		rec.ProfitLoss, nullFloat(rec.RiskRewardRatio), rec.Notes, rec.UpdatedAt.UTC(),
	)
	return err
}

func (j *SQLite) DeleteTrade(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE trade_id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTradeNotFound, id)
	}
	return nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
