// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"trade_id", "symbol", "side", "status", "quantity", "entry_price", "exit_price",
	"stop_loss", "take_profit", "fees", "commission", "open_time", "close_time",
	"profit_loss", "risk_reward_ratio", "notes",
}

// WriteCSV writes recs with a header row. Unset optional fields are empty.
func WriteCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range recs {
		err := cw.Write([]string{
			t.ID,
			t.Symbol,
			string(t.Side),
			string(t.Status),
			f(t.Quantity),
			f(t.EntryPrice),
			fp(t.ExitPrice),
			fp(t.StopLoss),
			fp(t.TakeProfit),
			f(t.Fees),
			f(t.Commission),
			ts(t.OpenTime),
			ts(t.CloseTime),
			f(t.ProfitLoss),
			fp(t.RiskRewardRatio),
			t.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fp(x *float64) string {
	if x == nil {
		return ""
	}
	return f(*x)
}

func ts(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
