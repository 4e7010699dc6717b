package report

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/stretchr/testify/require"
)

func TestSheetKeepsFirstError(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	s := newSheet(f, "Entries", "A", "B")
	require.NoError(t, s.err)

	s.widths(map[string]float64{"A": 1000})
	require.Error(t, s.err)
	first := s.err

	s.row("x", "y")
	s.widths(map[string]float64{"A": 10})
	require.Equal(t, first, s.err)
	require.Equal(t, 2, s.next, "rows after an error are dropped")
}

func TestBuildActivatesSummary(t *testing.T) {
	f, err := Build(nil)
	require.NoError(t, err)
	defer f.Close()

	index, err := f.GetSheetIndex(SheetSummary)
	require.NoError(t, err)
	require.Equal(t, index, f.GetActiveSheetIndex())
}
