// journal/journal.go
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/pipval/settlement"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrTradeTerminal = errors.New("trade already closed or cancelled")
	ErrInvalidTrade  = errors.New("invalid trade")
)

// TradeRecord is a trade plus the fields derived from it on every create
// and update.
type TradeRecord struct {
	settlement.Trade

	ProfitLoss      float64
	RiskRewardRatio *float64
	UpdatedAt       time.Time
}

// Filter narrows ListTrades. Zero fields match everything; ClosedFrom and
// ClosedTo bound close_time as [from, to).
type Filter struct {
	Status     settlement.Status
	Symbol     string
	ClosedFrom time.Time
	ClosedTo   time.Time
}

type Store interface {
	SaveTrade(ctx context.Context, rec TradeRecord) error
	GetTrade(ctx context.Context, id string) (TradeRecord, error)
	ListTrades(ctx context.Context, f Filter) ([]TradeRecord, error)
	DeleteTrade(ctx context.Context, id string) error
	Close() error
}
