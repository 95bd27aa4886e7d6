package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/pkg/crdb"
)

// queryFlags holds the CRDB parameters shared by querying commands.
type queryFlags struct {
	den                string
	energyType         string
	comboLevel         int
	energyConvertLevel int
	fluxRescaling      float64
	expDates           string
	energyStart        float64
	energyStop         float64
	timeStart          string
	timeStop           string
	timeSeries         string
	format             string
	modulation         string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.den, "den", "d", "", "denominator for ratios (e.g. C for B/C)")
	fs.StringVarP(&f.energyType, "energy-type", "e", crdb.DefaultEnergyType, "energy axis: "+strings.Join(crdb.EnergyTypes, ", "))
	fs.IntVar(&f.comboLevel, "combo-level", crdb.DefaultComboLevel, "combination level of native data (0, 1, 2)")
	fs.IntVar(&f.energyConvertLevel, "energy-convert-level", crdb.DefaultEnergyConvertLevel, "energy conversion level (0, 1, 2)")
	fs.Float64Var(&f.fluxRescaling, "flux-rescaling", 0, "multiply fluxes by E^x, x in [0, 2.5]")
	fs.StringVar(&f.expDates, "exp-dates", "", "restrict to experiments/dates (CRDB syntax)")
	fs.Float64Var(&f.energyStart, "energy-start", 0, "lower energy bound")
	fs.Float64Var(&f.energyStop, "energy-stop", 0, "upper energy bound")
	fs.StringVar(&f.timeStart, "time-start", "", "start of the time window")
	fs.StringVar(&f.timeStop, "time-stop", "", "end of the time window")
	fs.StringVar(&f.timeSeries, "time-series", crdb.DefaultTimeSeries, "time series data: no, only, all")
	fs.StringVar(&f.format, "format", crdb.DefaultFormat, "server output format: csv, usine, galprop")
	fs.StringVar(&f.modulation, "modulation", crdb.DefaultModulation, "solar modulation model: USO05, USO17, GHE17")

	_ = cmd.RegisterFlagCompletionFunc("energy-type", fixedCompletion(crdb.EnergyTypes...))
	_ = cmd.RegisterFlagCompletionFunc("time-series", fixedCompletion(crdb.TimeSeriesNo, crdb.TimeSeriesOnly, crdb.TimeSeriesAll))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(crdb.FormatCSV, crdb.FormatUSINE, crdb.FormatGALPROP))
	_ = cmd.RegisterFlagCompletionFunc("modulation", fixedCompletion(crdb.ModulationUSO05, crdb.ModulationUSO17, crdb.ModulationGHE17))
	_ = cmd.RegisterFlagCompletionFunc("den", completeQuantities)
}

// params returns the query parameters for num. The server URL is left to
// the client.
func (f *queryFlags) params(num string) crdb.QueryParameters {
	return crdb.QueryParameters{
		Num:                num,
		Den:                f.den,
		EnergyType:         f.energyType,
		ComboLevel:         f.comboLevel,
		EnergyConvertLevel: f.energyConvertLevel,
		FluxRescaling:      f.fluxRescaling,
		ExpDates:           f.expDates,
		EnergyStart:        f.energyStart,
		EnergyStop:         f.energyStop,
		TimeStart:          f.timeStart,
		TimeStop:           f.timeStop,
		TimeSeries:         f.timeSeries,
		Format:             f.format,
		Modulation:         f.modulation,
	}
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeQuantities(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, q := range crdb.KnownQuantities() {
		if strings.HasPrefix(q, toComplete) {
			out = append(out, q)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
