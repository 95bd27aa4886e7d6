package crdb

import (
	"math"
	"strconv"
)

// String column widths. Longer values are truncated.
const (
	maxQuantityLen = 10
	maxSubExpLen   = 100
	maxEAxisLen    = 4
	maxADSURLLen   = 32
	maxDatetimeLen = 100
)

// NumFields is the number of columns in every data row.
const NumFields = 16

// Columns lists the field names in wire order.
var Columns = [NumFields]string{
	"quantity",
	"sub_exp",
	"e_axis",
	"e_mean",
	"e_low",
	"e_high",
	"value",
	"err_stat_minus",
	"err_stat_plus",
	"err_sys_minus",
	"err_sys_plus",
	"ads_url",
	"phi_in_mv",
	"distance_in_au",
	"datetime",
	"is_upper_limit",
}

// DataRecord is one row of a CRDB table. Numeric cells the server left
// blank or malformed hold NaN.
type DataRecord struct {
	Quantity     string  `json:"quantity"`
	SubExp       string  `json:"sub_exp"`
	EAxis        string  `json:"e_axis"`
	EMean        float64 `json:"e_mean"`
	ELow         float64 `json:"e_low"`
	EHigh        float64 `json:"e_high"`
	Value        float64 `json:"value"`
	ErrStatMinus float64 `json:"err_stat_minus"`
	ErrStatPlus  float64 `json:"err_stat_plus"`
	ErrSysMinus  float64 `json:"err_sys_minus"`
	ErrSysPlus   float64 `json:"err_sys_plus"`
	ADSURL       string  `json:"ads_url"`
	PhiInMV      float64 `json:"phi_in_mv"`
	DistanceInAU float64 `json:"distance_in_au"`
	Datetime     string  `json:"datetime"`
	IsUpperLimit bool    `json:"is_upper_limit"`
}

// Experiment returns the experiment name of the row, see [ExperimentName].
func (r DataRecord) Experiment() string {
	return ExperimentName(r.SubExp)
}

// Strings formats the row in [Columns] order. NaN is written as "nan" and
// the upper-limit flag as "1" or "0".
func (r DataRecord) Strings() []string {
	return []string{
		r.Quantity,
		r.SubExp,
		r.EAxis,
		FormatFloat(r.EMean),
		FormatFloat(r.ELow),
		FormatFloat(r.EHigh),
		FormatFloat(r.Value),
		FormatFloat(r.ErrStatMinus),
		FormatFloat(r.ErrStatPlus),
		FormatFloat(r.ErrSysMinus),
		FormatFloat(r.ErrSysPlus),
		r.ADSURL,
		FormatFloat(r.PhiInMV),
		FormatFloat(r.DistanceInAU),
		r.Datetime,
		formatBool(r.IsUpperLimit),
	}
}

// FormatFloat renders v with the fewest digits that round-trip.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Table is the ordered result of one query.
type Table []DataRecord

// Len returns the number of rows.
func (t Table) Len() int { return len(t) }

// Column returns the numeric column name, or false if name is not a
// numeric field.
func (t Table) Column(name string) ([]float64, bool) {
	get, ok := floatFields[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t))
	for i := range t {
		out[i] = get(&t[i])
	}
	return out, true
}

// Select returns the rows where m is true. Rows beyond len(m) are dropped.
func (t Table) Select(m Mask) Table {
	out := make(Table, 0, m.Count())
	for i, keep := range m {
		if keep && i < len(t) {
			out = append(out, t[i])
		}
	}
	return out
}

var floatFields = map[string]func(*DataRecord) float64{
	"e_mean":         func(r *DataRecord) float64 { return r.EMean },
	"e_low":          func(r *DataRecord) float64 { return r.ELow },
	"e_high":         func(r *DataRecord) float64 { return r.EHigh },
	"value":          func(r *DataRecord) float64 { return r.Value },
	"err_stat_minus": func(r *DataRecord) float64 { return r.ErrStatMinus },
	"err_stat_plus":  func(r *DataRecord) float64 { return r.ErrStatPlus },
	"err_sys_minus":  func(r *DataRecord) float64 { return r.ErrSysMinus },
	"err_sys_plus":   func(r *DataRecord) float64 { return r.ErrSysPlus },
	"phi_in_mv":      func(r *DataRecord) float64 { return r.PhiInMV },
	"distance_in_au": func(r *DataRecord) float64 { return r.DistanceInAU },
}
