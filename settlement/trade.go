// settlement/trade.go
package settlement

import (
	"fmt"
	"strings"
	"time"
)

type Side string

const (
	Buy   Side = "buy"
	Sell  Side = "sell"
	Long  Side = "long"
	Short Side = "short"
)

// IsLong reports whether s opens a long position.
func (s Side) IsLong() bool {
	return s == Buy || s == Long
}

func ParseSide(s string) (Side, error) {
	switch v := Side(strings.ToLower(strings.TrimSpace(s))); v {
	case Buy, Sell, Long, Short:
		return v, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// Status moves open -> closed or open -> cancelled. Both are terminal.
type Status string

const (
	Open      Status = "open"
	Closed    Status = "closed"
	Cancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case Open, Closed, Cancelled:
		return v, nil
	case "canceled":
		return Cancelled, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == Closed || s == Cancelled
}

// Trade is the record the persistence layer hands in. Quantity is in raw
// units, not lots. Optional prices are nil when unset.
type Trade struct {
	ID         string
	Symbol     string
	Side       Side
	Status     Status
	Quantity   float64
	EntryPrice float64
	ExitPrice  *float64
	StopLoss   *float64
	TakeProfit *float64
	Fees       float64
	Commission float64

	OpenTime  time.Time
	CloseTime time.Time
	Notes     string
}

// Price returns a pointer to p for filling optional Trade fields.
func Price(p float64) *float64 {
	return &p
}
