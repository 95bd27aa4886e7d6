package crdb

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/crdb/pkg/errors"
)

// endpoint is the REST script under the server root.
const endpoint = "/rest.php"

// BuildURL validates p and returns its query URL. Validation stops at the
// first violation and fails with INVALID_PARAMETER:
//
//  1. Num must be a usable quantity name (Den too, when set)
//  2. EnergyType, uppercased, must be one of [EnergyTypes]
//  3. ComboLevel must be 0, 1 or 2
//  4. EnergyConvertLevel must be 0, 1 or 2
//  5. FluxRescaling must lie in [0, 2.5]
//  6. EnergyStart and EnergyStop must be finite
//
// Step 1 is stricter than the server requires: names with characters that
// would break the query string ('&', '=', '#') are rejected locally
// instead of being passed on for the server to refuse.
//
// Keys appear in a fixed order and fields at their default are omitted, so
// equal parameters always produce byte-identical URLs. An empty EnergyType
// means [DefaultEnergyType].
func BuildURL(p QueryParameters) (string, error) {
	if err := errors.ValidateQuantity("num", p.Num); err != nil {
		return "", err
	}
	if p.Den != "" {
		if err := errors.ValidateQuantity("den", p.Den); err != nil {
			return "", err
		}
	}

	energyType := strings.ToUpper(p.EnergyType)
	if energyType == "" {
		energyType = DefaultEnergyType
	}
	if !slices.Contains(EnergyTypes, energyType) {
		return "", errors.New(errors.ErrCodeInvalidParameter,
			"energy_type must be one of %s, got %q", strings.Join(EnergyTypes, ","), p.EnergyType)
	}
	if !validLevel(p.ComboLevel) {
		return "", errors.New(errors.ErrCodeInvalidParameter, "combo_level must be 0, 1 or 2, got %d", p.ComboLevel)
	}
	if !validLevel(p.EnergyConvertLevel) {
		return "", errors.New(errors.ErrCodeInvalidParameter, "energy_convert_level must be 0, 1 or 2, got %d", p.EnergyConvertLevel)
	}
	if math.IsNaN(p.FluxRescaling) || p.FluxRescaling < 0 || p.FluxRescaling > MaxFluxRescaling {
		return "", errors.New(errors.ErrCodeInvalidParameter, "flux_rescaling must be in [0, %g], got %g", MaxFluxRescaling, p.FluxRescaling)
	}

	if !finite(p.EnergyStart) {
		return "", errors.New(errors.ErrCodeInvalidParameter, "energy_start must be finite, got %g", p.EnergyStart)
	}
	if !finite(p.EnergyStop) {
		return "", errors.New(errors.ErrCodeInvalidParameter, "energy_stop must be finite, got %g", p.EnergyStop)
	}

	var q query
	q.add("num", escapePlus(p.Num))
	if p.Den != "" {
		q.add("den", escapePlus(p.Den))
	}
	q.add("energy_type", energyType)
	if p.ComboLevel != DefaultComboLevel {
		q.add("combo_level", strconv.Itoa(p.ComboLevel))
	}
	if p.EnergyConvertLevel != DefaultEnergyConvertLevel {
		q.add("energy_convert_level", strconv.Itoa(p.EnergyConvertLevel))
	}
	if p.FluxRescaling != 0 {
		q.add("flux_rescaling", formatFloat(p.FluxRescaling))
	}
	q.addString("exp_dates", p.ExpDates, "")
	if p.EnergyStart != 0 {
		q.add("energy_start", formatFloat(p.EnergyStart))
	}
	if p.EnergyStop != 0 {
		q.add("energy_stop", formatFloat(p.EnergyStop))
	}
	q.addString("time_start", p.TimeStart, "")
	q.addString("time_stop", p.TimeStop, "")
	q.addString("time_series", p.TimeSeries, DefaultTimeSeries)
	q.addString("format", p.Format, DefaultFormat)
	q.addString("modulation", p.Modulation, DefaultModulation)

	return baseURL(p.ServerURL) + endpoint + "?" + q.String(), nil
}

func validLevel(l int) bool { return l >= 0 && l <= 2 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// escapePlus percent-encodes '+', which the server would otherwise read as
// a space ("e+" is a particle name).
func escapePlus(s string) string {
	return strings.ReplaceAll(s, "+", "%2B")
}

// formatFloat never produces an exponent. Callers reject non-finite
// values, so no "+Inf" reaches the query.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func baseURL(server string) string {
	if server == "" {
		server = DefaultServerURL
	}
	return strings.TrimRight(server, "/")
}

// query accumulates key=value pairs in insertion order.
type query []string

func (q *query) add(key, value string) {
	*q = append(*q, key+"="+value)
}

// addString adds key unless value is empty or equal to def.
func (q *query) addString(key, value, def string) {
	if value == "" || value == def {
		return
	}
	q.add(key, escapePlus(value))
}

func (q query) String() string {
	return strings.Join(q, "&")
}
