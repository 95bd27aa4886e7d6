package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/crdb/pkg/crdb"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// Formats lists the formats accepted by [Write].
var Formats = []string{FormatCSV, FormatTSV, FormatJSON}

type document struct {
	URL  string       `json:"url,omitempty"`
	Rows []jsonRecord `json:"rows"`
}

// jsonRecord mirrors crdb.DataRecord with nullable numbers.
type jsonRecord struct {
	Quantity     string   `json:"quantity"`
	SubExp       string   `json:"sub_exp"`
	EAxis        string   `json:"e_axis"`
	EMean        *float64 `json:"e_mean"`
	ELow         *float64 `json:"e_low"`
	EHigh        *float64 `json:"e_high"`
	Value        *float64 `json:"value"`
	ErrStatMinus *float64 `json:"err_stat_minus"`
	ErrStatPlus  *float64 `json:"err_stat_plus"`
	ErrSysMinus  *float64 `json:"err_sys_minus"`
	ErrSysPlus   *float64 `json:"err_sys_plus"`
	ADSURL       string   `json:"ads_url"`
	PhiInMV      *float64 `json:"phi_in_mv"`
	DistanceInAU *float64 `json:"distance_in_au"`
	Datetime     string   `json:"datetime"`
	IsUpperLimit bool     `json:"is_upper_limit"`
}

// nullable maps NaN and ±Inf to nil.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toJSON(r crdb.DataRecord) jsonRecord {
	return jsonRecord{
		Quantity:     r.Quantity,
		SubExp:       r.SubExp,
		EAxis:        r.EAxis,
		EMean:        nullable(r.EMean),
		ELow:         nullable(r.ELow),
		EHigh:        nullable(r.EHigh),
		Value:        nullable(r.Value),
		ErrStatMinus: nullable(r.ErrStatMinus),
		ErrStatPlus:  nullable(r.ErrStatPlus),
		ErrSysMinus:  nullable(r.ErrSysMinus),
		ErrSysPlus:   nullable(r.ErrSysPlus),
		ADSURL:       r.ADSURL,
		PhiInMV:      nullable(r.PhiInMV),
		DistanceInAU: nullable(r.DistanceInAU),
		Datetime:     r.Datetime,
		IsUpperLimit: r.IsUpperLimit,
	}
}

// WriteJSON encodes t, labelled with the query url, as indented JSON.
func WriteJSON(t crdb.Table, url string, w io.Writer) error {
	out := document{URL: url, Rows: make([]jsonRecord, len(t))}
	for i, r := range t {
		out.Rows[i] = toJSON(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes t as comma-separated values with a commented header.
func WriteCSV(t crdb.Table, w io.Writer) error {
	return writeDelimited(t, w, ',')
}

// WriteTSV writes t as tab-separated values with a commented header.
func WriteTSV(t crdb.Table, w io.Writer) error {
	return writeDelimited(t, w, '\t')
}

func writeDelimited(t crdb.Table, w io.Writer, sep rune) error {
	header := crdb.Columns
	if _, err := fmt.Fprintf(w, "# %s\n", strings.Join(header[:], string(sep))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = sep
	for _, r := range t {
		if err := cw.Write(r.Strings()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Write encodes t in format (csv, tsv or json).
func Write(t crdb.Table, url, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return WriteCSV(t, w)
	case FormatTSV:
		return WriteTSV(t, w)
	case FormatJSON:
		return WriteJSON(t, url, w)
	default:
		return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range Formats {
		if ext == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("cannot infer format from %q", path)
}

// Export writes t to the file at path, choosing the format from its
// extension.
func Export(t crdb.Table, url, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(t, url, format, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
