// journal/ledger.go
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/pipval/instrument"
	"github.com/rustyeddy/pipval/pkg/id"
	"github.com/rustyeddy/pipval/settlement"
)

// Evaluator derives the stored P&L and risk/reward for a trade.
type Evaluator interface {
	Evaluate(settlement.Trade) settlement.Evaluation
}

// Observer is told about every record the Ledger saves.
type Observer interface {
	ObserveTrade(TradeRecord)
}

// Ledger drives the open -> closed / open -> cancelled lifecycle and
// re-evaluates the derived fields on every write.
type Ledger struct {
	store     Store
	eval      Evaluator
	observers []Observer
	now       func() time.Time
}

type LedgerOption func(*Ledger)

func WithObserver(o Observer) LedgerOption {
	return func(l *Ledger) { l.observers = append(l.observers, o) }
}

// WithClock replaces time.Now for open, close and update stamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store Store, eval Evaluator, opts ...LedgerOption) *Ledger {
	l := &Ledger{store: store, eval: eval, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

func validate(t settlement.Trade) error {
	switch {
	case t.Symbol == "":
		return fmt.Errorf("%w: symbol is required", ErrInvalidTrade)
	case t.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	case t.EntryPrice <= 0:
		return fmt.Errorf("%w: entry price must be positive", ErrInvalidTrade)
	case t.Fees < 0 || t.Commission < 0:
		return fmt.Errorf("%w: fees and commission cannot be negative", ErrInvalidTrade)
	}
	if _, err := settlement.ParseSide(string(t.Side)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}
	return nil
}

func (l *Ledger) save(ctx context.Context, t settlement.Trade) (TradeRecord, error) {
	ev := l.eval.Evaluate(t)
	rec := TradeRecord{
		Trade:           t,
		ProfitLoss:      ev.ProfitLoss,
		RiskRewardRatio: ev.RiskRewardRatio,
		UpdatedAt:       l.now().UTC(),
	}
	if err := l.store.SaveTrade(ctx, rec); err != nil {
		return TradeRecord{}, fmt.Errorf("save trade %s: %w", t.ID, err)
	}
	for _, o := range l.observers {
		o.ObserveTrade(rec)
	}
	return rec, nil
}

// Open records a new trade. An empty ID is filled with a ULID.
func (l *Ledger) Open(ctx context.Context, t settlement.Trade) (TradeRecord, error) {
	t.Symbol = instrument.Normalize(t.Symbol)
	if err := validate(t); err != nil {
		return TradeRecord{}, err
	}
	if t.ID == "" {
		t.ID = id.New()
	}
	if t.OpenTime.IsZero() {
		t.OpenTime = l.now()
	}
	t.Status = settlement.Open
	t.ExitPrice = nil
	t.CloseTime = time.Time{}
	return l.save(ctx, t)
}

// Update replaces the editable fields of an open trade (levels, fees,
// notes, quantity) and re-evaluates it.
func (l *Ledger) Update(ctx context.Context, t settlement.Trade) (TradeRecord, error) {
	cur, err := l.open(ctx, t.ID)
	if err != nil {
		return TradeRecord{}, err
	}
	t.Symbol = instrument.Normalize(t.Symbol)
	if err := validate(t); err != nil {
		return TradeRecord{}, err
	}
	t.Status = cur.Status
	t.OpenTime = cur.OpenTime
	t.ExitPrice = nil
	t.CloseTime = time.Time{}
	return l.save(ctx, t)
}

// Close fixes the exit price and realizes the trade's P&L.
func (l *Ledger) Close(ctx context.Context, tradeID string, exitPrice float64) (TradeRecord, error) {
	if exitPrice <= 0 {
		return TradeRecord{}, fmt.Errorf("%w: exit price must be positive", ErrInvalidTrade)
	}
	cur, err := l.open(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	t := cur.Trade
	t.Status = settlement.Closed
	t.ExitPrice = settlement.Price(exitPrice)
	t.CloseTime = l.now()
	return l.save(ctx, t)
}

// Cancel retires an open trade without P&L.
func (l *Ledger) Cancel(ctx context.Context, tradeID string) (TradeRecord, error) {
	cur, err := l.open(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	t := cur.Trade
	t.Status = settlement.Cancelled
	t.CloseTime = l.now()
	return l.save(ctx, t)
}

func (l *Ledger) open(ctx context.Context, tradeID string) (TradeRecord, error) {
	cur, err := l.store.GetTrade(ctx, tradeID)
	if err != nil {
		return TradeRecord{}, err
	}
	if cur.Status.Terminal() {
		return TradeRecord{}, fmt.Errorf("%w: %s is %s", ErrTradeTerminal, tradeID, cur.Status)
	}
	return cur, nil
}
