package report

import (
	"github.com/xuri/excelize/v2"
)

// sheet appends rows below a bold header. The first error sticks.
type sheet struct {
	f    *excelize.File
	name string
	next int
	err  error
}

func newSheet(f *excelize.File, name string, headers ...string) *sheet {
	s := &sheet{f: f, name: name, next: 1}
	if index, _ := f.GetSheetIndex(name); index == -1 {
		if _, err := f.NewSheet(name); err != nil {
			s.err = err
			return s
		}
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	s.row(row...)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		s.err = err
		return s
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		s.err = err
	}
	return s
}

func (s *sheet) row(values ...any) {
	if s.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(1, s.next)
	if err := s.f.SetSheetRow(s.name, cell, &values); err != nil {
		s.err = err
		return
	}
	s.next++
}

func (s *sheet) widths(cols map[string]float64) {
	if s.err != nil {
		return
	}
	for col, w := range cols {
		if err := s.f.SetColWidth(s.name, col, col, w); err != nil {
			s.err = err
			return
		}
	}
}
