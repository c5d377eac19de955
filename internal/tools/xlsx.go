package tools

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/flarebyte/diaflow/internal/errors"
)

const reportSheet = "Sheet1"

// ConvertTSVToXLSX copies a tab-separated PeptideShaker report into a single
// sheet workbook. Numeric cells are written as numbers.
func ConvertTSVToXLSX(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	r := csv.NewReader(in)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sw, err := f.NewStreamWriter(reportSheet)
	if err != nil {
		return errors.Wrap(err, "open sheet writer")
	}
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "read %s row %d", src, row)
		}
		cells := make([]interface{}, len(rec))
		for i, v := range rec {
			cells[i] = cellValue(v, row == 1)
		}
		axis, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return errors.Wrapf(err, "write row %d", row)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flush sheet")
	}
	if err := f.SaveAs(dst); err != nil {
		return errors.Wrapf(err, "save %s", dst)
	}
	return nil
}

func cellValue(v string, header bool) interface{} {
	if header || v == "" {
		return v
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	return v
}
