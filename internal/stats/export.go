package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Number", "Level", "IP Address", "Created At"}

func exportRow(e NumberEntry) []string {
	ip := "N/A"
	if e.IPAddress != nil {
		ip = *e.IPAddress
	}
	return []string{
		strconv.FormatInt(e.ID, 10),
		strconv.FormatInt(e.Number, 10),
		e.Level,
		sanitizeCell(ip),
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV writes every entry, newest first, with a header row.
func WriteCSV(w io.Writer, entries []NumberEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(exportRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const sheetName = "Lucky Numbers"

// WriteXLSX writes the same table as WriteCSV as a single-sheet workbook.
func WriteXLSX(w io.Writer, entries []NumberEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, e := range entries {
		ip := "N/A"
		if e.IPAddress != nil {
			ip = sanitizeCell(*e.IPAddress)
		}
		row := []interface{}{e.ID, e.Number, e.Level, ip, e.CreatedAt.UTC().Format(time.RFC3339)}
		if err := sw.SetRow(fmt.Sprintf("A%d", i+2), row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// sanitizeCell stops spreadsheet apps from evaluating client-supplied text.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
