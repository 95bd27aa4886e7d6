package crdb

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/crdb/pkg/errors"
)

const testURL = "https://lpsc.in2p3.fr/crdb/rest.php?num=B&den=C&energy_type=EKN"

// row builds a whitespace-separated data line with the given sub_exp.
func row(subExp string, e float64) string {
	return strings.Join([]string{
		"B/C", subExp, "EKN",
		FormatFloat(e), FormatFloat(e * 0.9), FormatFloat(e * 1.1),
		"0.25", "0.01", "0.01", "0.02", "0.02",
		"2016PhRvL.117w1103A", "500", "1", "2011/05-2016/05", "0",
	}, " ")
}

func TestParseResponseRows(t *testing.T) {
	text := "# header comment\n" +
		row("AMS02(2011/05-2016/05)", 1) + "\n" +
		row("PAMELA(2006/07-2008/12)", 10) + "\n"

	got, err := ParseResponse(text, testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}

	want := Table{
		{
			Quantity: "B/C", SubExp: "AMS02(2011/05-2016/05)", EAxis: "EKN",
			EMean: 1, ELow: 0.9, EHigh: 1.1, Value: 0.25,
			ErrStatMinus: 0.01, ErrStatPlus: 0.01, ErrSysMinus: 0.02, ErrSysPlus: 0.02,
			ADSURL: "2016PhRvL.117w1103A", PhiInMV: 500, DistanceInAU: 1,
			Datetime: "2011/05-2016/05",
		},
		{
			Quantity: "B/C", SubExp: "PAMELA(2006/07-2008/12)", EAxis: "EKN",
			EMean: 10, ELow: 9, EHigh: 11, Value: 0.25,
			ErrStatMinus: 0.01, ErrStatPlus: 0.01, ErrSysMinus: 0.02, ErrSysPlus: 0.02,
			ADSURL: "2016PhRvL.117w1103A", PhiInMV: 500, DistanceInAU: 1,
			Datetime: "2011/05-2016/05",
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("ParseResponse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponseQueryError(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"unknown particle", "unknown particle"},
		{"energy_type not supported for this quantity\r", "energy_type not supported for this quantity"},
		{"", "empty response"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := ParseResponse(tt.text, testURL)
			if !errors.Is(err, errors.ErrCodeQueryError) {
				t.Fatalf("ParseResponse() error = %v, want QUERY_ERROR", err)
			}
			if msg := errors.UserMessage(err); msg != tt.want {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}
			if !strings.Contains(err.Error(), testURL) {
				t.Errorf("error %q should mention the query URL", err)
			}
		})
	}
}

func TestParseResponseHTMLWrapper(t *testing.T) {
	body := row("AMS02(2011/05-2016/05)", 1) + "\n" + row("AMS02(2011/05-2016/05)", 2)

	tests := []struct {
		name string
		text string
	}{
		{"html", "<html><body><pre>\n" + body + "\n</pre></body></html>"},
		{"trailing newline", "<html>\n" + body + "\n</html>\n"},
		{"doctype", "<!DOCTYPE html>\n" + body + "\n</html>"},
		{"upper case", "<HTML lang=\"en\">\n" + body + "\n</HTML>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text, testURL)
			if err != nil {
				t.Fatalf("ParseResponse() error: %v", err)
			}
			if got.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", got.Len())
			}
			if got[0].EMean != 1 || got[1].EMean != 2 {
				t.Errorf("rows = %v, %v", got[0].EMean, got[1].EMean)
			}
		})
	}
}

func TestParseResponseHTMLStripsExactlyTwoLines(t *testing.T) {
	// Without the HTML check the first data row would be lost, and with a
	// wider strip the second would be.
	text := "<html>\n" + row("A", 1) + "\n" + row("B", 2) + "\n" + row("C", 3) + "\n</html>"
	got, err := ParseResponse(text, testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, Experiments(got)); diff != "" {
		t.Errorf("experiments mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponseAmpersandRepair(t *testing.T) {
	text := row("AMS02&amp;PAMELA", 1) + "\n" +
		row("BESS", 2) + "\n" +
		row("AMS02&amp;PAMELA", 3) + "\n" +
		row("A&amp;B&amp;C(2000)", 4) + "\n"

	got, err := ParseResponse(text, testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	want := []string{"AMS02&PAMELA", "BESS", "AMS02&PAMELA", "A&B&C(2000)"}
	for i, w := range want {
		if got[i].SubExp != w {
			t.Errorf("row %d SubExp = %q, want %q", i, got[i].SubExp, w)
		}
	}
}

func TestParseResponseCommaSeparated(t *testing.T) {
	line := "B/C, AMS02 (2011/05-2016/05), EKN, 1, 0.9, 1.1, 0.3, 0.01, 0.01, 0.02, 0.02, 2016PhRvL, 500, 1, 2011/05-2016/05, 1"
	got, err := ParseResponse(line+"\n", testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if got[0].SubExp != "AMS02 (2011/05-2016/05)" || !got[0].IsUpperLimit {
		t.Errorf("row = %+v", got[0])
	}
	if got[0].Experiment() != "AMS02" {
		t.Errorf("Experiment() = %q, want AMS02", got[0].Experiment())
	}
}

func TestParseResponseCommaInsideSubExp(t *testing.T) {
	text := row("AMS02(2011,2016)", 1) + "\n" + row("PAMELA", 2) + "\n"
	got, err := ParseResponse(text, testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if got.Len() != 2 || got[0].SubExp != "AMS02(2011,2016)" {
		t.Errorf("rows = %+v", got)
	}
	if got[0].Experiment() != "AMS02" {
		t.Errorf("Experiment() = %q, want AMS02", got[0].Experiment())
	}
}

func TestParseResponseErrorMessage(t *testing.T) {
	_, err := ParseResponse("H AMS02 EK 1 2 3\n", testURL)
	want := "line 1: expected 16 fields, got 6"
	if got := errors.UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
	if n := strings.Count(err.Error(), string(errors.ErrCodeParseError)); n != 1 {
		t.Errorf("Error() = %q, code appears %d times", err.Error(), n)
	}
	if !strings.HasSuffix(err.Error(), "("+testURL+")") {
		t.Errorf("Error() = %q, want the query URL", err.Error())
	}
}

func TestParseResponseTolerantNumbers(t *testing.T) {
	line := "H AMS02 EK 1 - abc 0.5 nan 0.1 0.1 0.1 ref X 1 - 0"
	got, err := ParseResponse(line+"\n", testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	r := got[0]
	for name, v := range map[string]float64{"e_low": r.ELow, "e_high": r.EHigh, "err_stat_minus": r.ErrStatMinus, "phi_in_mv": r.PhiInMV} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
	if r.EMean != 1 || r.Value != 0.5 {
		t.Errorf("EMean = %v, Value = %v", r.EMean, r.Value)
	}
}

func TestParseResponseParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"too few fields", "H AMS02 EK 1 2 3\n"},
		{"too many fields", row("AMS02", 1) + " extra\n"},
		{"bad boolean", strings.TrimSuffix(row("AMS02", 1), "0") + "maybe\n"},
		{"single field then newline", "unknown particle\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text, testURL)
			if !errors.Is(err, errors.ErrCodeParseError) {
				t.Fatalf("ParseResponse() = %v, %v; want PARSE_ERROR", got, err)
			}
			if got != nil {
				t.Error("ParseResponse() returned a partial table")
			}
		})
	}
}

func TestParseResponseEmptyTable(t *testing.T) {
	got, err := ParseResponse("# no data\n", testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestParseResponseTruncatesStrings(t *testing.T) {
	long := strings.Repeat("x", 40)
	line := "QUANTITY_TOO_LONG " + strings.Repeat("s", 120) + " EKNX 1 1 1 1 1 1 1 1 " + long + " 1 1 " + strings.Repeat("d", 120) + " 0"
	got, err := ParseResponse(line+"\n", testURL)
	if err != nil {
		t.Fatalf("ParseResponse() error: %v", err)
	}
	r := got[0]
	if len(r.Quantity) != 10 || len(r.SubExp) != 100 || len(r.EAxis) != 4 || len(r.ADSURL) != 32 || len(r.Datetime) != 100 {
		t.Errorf("lengths = %d %d %d %d %d", len(r.Quantity), len(r.SubExp), len(r.EAxis), len(r.ADSURL), len(r.Datetime))
	}
}

func TestParseResponseIdempotent(t *testing.T) {
	text := row("AMS02&amp;PAMELA", 1) + "\n" + "H X EK - - - - - - - - r - - - 1\n"
	first, err1 := ParseResponse(text, testURL)
	second, err2 := ParseResponse(text, testURL)
	if err1 != nil || err2 != nil {
		t.Fatalf("ParseResponse() errors: %v, %v", err1, err2)
	}
	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("ParseResponse() not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseFloatOrNaN(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1},
		{" 2.5 ", 2.5},
		{"1e-3", 0.001},
		{"-7", -7},
		{"", math.NaN()},
		{"-", math.NaN()},
		{"abc", math.NaN()},
		{"1,5", math.NaN()},
		{"nan", math.NaN()},
	}
	for _, tt := range tests {
		got := ParseFloatOrNaN(tt.in)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ParseFloatOrNaN(%q) = %v, want NaN", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFloatOrNaN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"1", "true", "True", "T", "yes", "y"} {
		if v, err := ParseBool(s); err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v; want true", s, v, err)
		}
	}
	for _, s := range []string{"0", "false", "FALSE", "f", "no", "n", ""} {
		if v, err := ParseBool(s); err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v; want false", s, v, err)
		}
	}
	for _, s := range []string{"2", "maybe", "-1"} {
		if _, err := ParseBool(s); !errors.Is(err, errors.ErrCodeParseError) {
			t.Errorf("ParseBool(%q) error = %v, want PARSE_ERROR", s, err)
		}
	}
}
