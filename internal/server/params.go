package server

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/crdb/pkg/crdb"
	"github.com/matzehuels/crdb/pkg/errors"
)

// paramsFromQuery reads CRDB query parameters from the request query
// string. Keys match the CRDB REST keys; absent keys keep their defaults.
// server_url is not accepted: the API always queries its configured server.
func paramsFromQuery(q url.Values) (crdb.QueryParameters, error) {
	p := crdb.DefaultParameters(q.Get("num"))
	p.ServerURL = ""

	str := map[string]*string{
		"den":         &p.Den,
		"energy_type": &p.EnergyType,
		"exp_dates":   &p.ExpDates,
		"time_start":  &p.TimeStart,
		"time_stop":   &p.TimeStop,
		"time_series": &p.TimeSeries,
		"format":      &p.Format,
		"modulation":  &p.Modulation,
	}
	for key, dst := range str {
		if q.Has(key) {
			*dst = q.Get(key)
		}
	}

	ints := map[string]*int{
		"combo_level":          &p.ComboLevel,
		"energy_convert_level": &p.EnergyConvertLevel,
	}
	for key, dst := range ints {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.Atoi(q.Get(key))
		if err != nil {
			return p, errors.New(errors.ErrCodeInvalidParameter, "%s must be an integer, got %q", key, q.Get(key))
		}
		*dst = v
	}

	floats := map[string]*float64{
		"flux_rescaling": &p.FluxRescaling,
		"energy_start":   &p.EnergyStart,
		"energy_stop":    &p.EnergyStop,
	}
	for key, dst := range floats {
		if !q.Has(key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return p, errors.New(errors.ErrCodeInvalidParameter, "%s must be a number, got %q", key, q.Get(key))
		}
		*dst = v
	}

	return p, nil
}
