package journal

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rustyeddy/pipval/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	closedRec := sampleRecord()

	openRec := sampleRecord()
	openRec.ID = "T2"
	openRec.Status = settlement.Open
	openRec.ExitPrice = nil
	openRec.RiskRewardRatio = nil
	openRec.CloseTime = time.Time{}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []TradeRecord{closedRec, openRec}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"T1", "EURUSD", "buy", "closed", "100000.000000", "1.100000", "1.105000",
		"1.095000", "1.110000", "1.500000", "3.500000",
		"2024-01-02T03:04:05Z", "2024-01-02T04:05:06Z",
		"495.000000", "2.000000", "breakout",
	}, rows[1])

	assert.Equal(t, "open", rows[2][3])
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][12])
	assert.Equal(t, "", rows[2][14])
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
