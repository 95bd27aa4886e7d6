package io

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/crdb/pkg/crdb"
)

func fromJSON(r jsonRecord) crdb.DataRecord {
	return crdb.DataRecord{
		Quantity:     r.Quantity,
		SubExp:       r.SubExp,
		EAxis:        r.EAxis,
		EMean:        orNaN(r.EMean),
		ELow:         orNaN(r.ELow),
		EHigh:        orNaN(r.EHigh),
		Value:        orNaN(r.Value),
		ErrStatMinus: orNaN(r.ErrStatMinus),
		ErrStatPlus:  orNaN(r.ErrStatPlus),
		ErrSysMinus:  orNaN(r.ErrSysMinus),
		ErrSysPlus:   orNaN(r.ErrSysPlus),
		ADSURL:       r.ADSURL,
		PhiInMV:      orNaN(r.PhiInMV),
		DistanceInAU: orNaN(r.DistanceInAU),
		Datetime:     r.Datetime,
		IsUpperLimit: r.IsUpperLimit,
	}
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ReadJSON decodes a document written by [WriteJSON]. It returns the table
// and the query URL it was labelled with. ReadJSON does not close r.
func ReadJSON(r io.Reader) (crdb.Table, string, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	t := make(crdb.Table, len(doc.Rows))
	for i, row := range doc.Rows {
		t[i] = fromJSON(row)
	}
	return t, doc.URL, nil
}

// ReadCSV decodes rows written by [WriteCSV] or [WriteTSV]. Lines starting
// with '#' are skipped.
func ReadCSV(r io.Reader, sep rune) (crdb.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.Comment = '#'
	cr.FieldsPerRecord = crdb.NumFields

	var t crdb.Table
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		rec, err := crdb.NewRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		t = append(t, rec)
	}
}

// Import reads a table from the file at path, choosing the format from its
// extension.
func Import(path string) (crdb.Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		t, _, err := ReadJSON(f)
		return t, err
	case FormatTSV:
		return ReadCSV(f, '\t')
	default:
		return ReadCSV(f, ',')
	}
}
