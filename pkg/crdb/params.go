package crdb

// DefaultServerURL is the public CRDB instance.
const DefaultServerURL = "https://lpsc.in2p3.fr/crdb"

// Energy axis types accepted by the server.
const (
	EnergyEKN   = "EKN"   // kinetic energy per nucleon
	EnergyEK    = "EK"    // kinetic energy
	EnergyR     = "R"     // rigidity
	EnergyETOT  = "ETOT"  // total energy
	EnergyETOTN = "ETOTN" // total energy per nucleon
)

// EnergyTypes lists the valid energy types.
var EnergyTypes = []string{EnergyEKN, EnergyEK, EnergyR, EnergyETOT, EnergyETOTN}

// Time series modes.
const (
	TimeSeriesNo   = "no"
	TimeSeriesOnly = "only"
	TimeSeriesAll  = "all"
)

// Output formats produced by the server. Only FormatCSV is parsed by
// [ParseResponse]; the others can be fetched raw.
const (
	FormatCSV     = "csv"
	FormatUSINE   = "usine"
	FormatGALPROP = "galprop"
)

// Solar modulation models.
const (
	ModulationUSO05 = "USO05"
	ModulationUSO17 = "USO17"
	ModulationGHE17 = "GHE17"
)

// Defaults omitted from generated URLs.
const (
	DefaultEnergyType         = EnergyEK
	DefaultComboLevel         = 1
	DefaultEnergyConvertLevel = 1
	DefaultTimeSeries         = TimeSeriesNo
	DefaultFormat             = FormatCSV
	DefaultModulation         = ModulationGHE17

	// MaxFluxRescaling is the largest accepted flux_rescaling exponent.
	MaxFluxRescaling = 2.5
)

// QueryParameters describes one CRDB query. Num is required; every other
// field is optional and left out of the URL while it holds its default.
//
// Use [DefaultParameters] to obtain a value with all defaults set. The zero
// value of a numeric level is 0, which is a valid non-default choice.
type QueryParameters struct {
	Num                string  `json:"num" toml:"num"`
	Den                string  `json:"den,omitempty" toml:"den"`
	EnergyType         string  `json:"energy_type" toml:"energy_type"`
	ComboLevel         int     `json:"combo_level" toml:"combo_level"`
	EnergyConvertLevel int     `json:"energy_convert_level" toml:"energy_convert_level"`
	FluxRescaling      float64 `json:"flux_rescaling,omitempty" toml:"flux_rescaling"`
	ExpDates           string  `json:"exp_dates,omitempty" toml:"exp_dates"`
	EnergyStart        float64 `json:"energy_start,omitempty" toml:"energy_start"`
	EnergyStop         float64 `json:"energy_stop,omitempty" toml:"energy_stop"`
	TimeStart          string  `json:"time_start,omitempty" toml:"time_start"`
	TimeStop           string  `json:"time_stop,omitempty" toml:"time_stop"`
	TimeSeries         string  `json:"time_series,omitempty" toml:"time_series"`
	Format             string  `json:"format,omitempty" toml:"format"`
	Modulation         string  `json:"modulation,omitempty" toml:"modulation"`
	ServerURL          string  `json:"server_url,omitempty" toml:"server_url"`
}

// DefaultParameters returns parameters for num with every optional field at
// its default.
func DefaultParameters(num string) QueryParameters {
	return QueryParameters{
		Num:                num,
		EnergyType:         DefaultEnergyType,
		ComboLevel:         DefaultComboLevel,
		EnergyConvertLevel: DefaultEnergyConvertLevel,
		TimeSeries:         DefaultTimeSeries,
		Format:             DefaultFormat,
		Modulation:         DefaultModulation,
		ServerURL:          DefaultServerURL,
	}
}

// Ratio reports whether p requests num/den rather than a flux.
func (p QueryParameters) Ratio() bool { return p.Den != "" }

// Label is a short human-readable name for the query, e.g. "B/C" or "e+".
func (p QueryParameters) Label() string {
	if p.Ratio() {
		return p.Num + "/" + p.Den
	}
	return p.Num
}
