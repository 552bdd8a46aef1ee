// journal/org.go
package journal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rustyeddy/pipval/pkg/id"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block for pasting
// into a trading journal. Structured facts go in the PROPERTIES drawer.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, strings.ToUpper(string(t.Side)), shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	// Imported or hand-assigned ids are not ULIDs and carry no time.
	if created, err := id.Time(t.ID); err == nil {
		fmt.Fprintf(&b, ":CREATED: %s\n", ts(created))
	}
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	fmt.Fprintf(&b, ":QUANTITY: %s\n", trim(t.Quantity))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %.5f\n", t.EntryPrice)
	if t.ExitPrice != nil {
		fmt.Fprintf(&b, ":EXIT_PRICE: %.5f\n", *t.ExitPrice)
	}
	if t.StopLoss != nil {
		fmt.Fprintf(&b, ":STOP_LOSS: %.5f\n", *t.StopLoss)
	}
	if t.TakeProfit != nil {
		fmt.Fprintf(&b, ":TAKE_PROFIT: %.5f\n", *t.TakeProfit)
	}
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", ts(t.OpenTime))
	if !t.CloseTime.IsZero() {
		fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", ts(t.CloseTime))
	}
	fmt.Fprintf(&b, ":FEES: %.2f\n", t.Fees+t.Commission)
	fmt.Fprintf(&b, ":PROFIT_LOSS: %.2f\n", t.ProfitLoss)
	if t.RiskRewardRatio != nil {
		fmt.Fprintf(&b, ":RISK_REWARD: %.2f\n", *t.RiskRewardRatio)
	}
	b.WriteString(":END:\n\n")
	b.WriteString("*** Thesis\n- ")
	b.WriteString(t.Notes)
	b.WriteString("\n\n*** Execution\n- \n\n*** Review\n- \n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

func trim(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
