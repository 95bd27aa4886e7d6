package crdb

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/crdb/pkg/errors"
)

var nan = math.NaN()

// htmlTag matches a line that opens with an HTML tag such as <html>,
// <HTML lang="en"> or <!DOCTYPE html>.
var htmlTag = regexp.MustCompile(`^\s*<[A-Za-z!][^>]*>`)

// ParseResponse decodes the server's reply to url into a table.
//
// A reply consisting of a single line is the server's error message and
// fails with QUERY_ERROR carrying that line verbatim. A reply whose first
// line opens an HTML tag has its first and last line removed. Every other
// non-blank line that is not a '#' comment must hold exactly [NumFields]
// fields, separated by commas when the line contains one and by whitespace
// otherwise; anything else fails with PARSE_ERROR.
//
// Numeric cells go through [ParseFloatOrNaN] and the upper-limit flag
// through [ParseBool]. Escaped ampersands ("&amp;") in sub_exp are restored.
// Row order is preserved.
func ParseResponse(text, url string) (Table, error) {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		msg := strings.TrimRight(lines[0], "\r")
		if strings.TrimSpace(msg) == "" {
			msg = "empty response"
		}
		return nil, errors.New(errors.ErrCodeQueryError, "%s", msg).WithURL(url)
	}

	if htmlTag.MatchString(lines[0]) {
		lines = stripWrapper(lines)
	}

	table := make(Table, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, errors.New(errors.ErrCodeParseError, "line %d: %s", i+1, errors.UserMessage(err)).WithURL(url)
		}
		table = append(table, rec)
	}

	repairAmpersands(table)
	return table, nil
}

// stripWrapper drops the first line and the last non-empty line. A trailing
// newline after the closing tag does not count as the last line.
func stripWrapper(lines []string) []string {
	end := len(lines)
	for end > 1 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end <= 2 {
		return nil
	}
	return lines[1 : end-1]
}

// splitFields splits on whitespace, falling back to commas when that does
// not give a full row. Commas inside a whitespace-separated sub_exp such as
// "AMS02(2011,2016)" stay part of the field.
func splitFields(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == NumFields || !strings.Contains(line, ",") {
		return fields
	}
	fields = strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseRecord(line string) (DataRecord, error) {
	return NewRecord(splitFields(line))
}

// NewRecord builds a row from its fields in [Columns] order, applying the
// same conversions as [ParseResponse].
func NewRecord(f []string) (DataRecord, error) {
	if len(f) != NumFields {
		return DataRecord{}, errors.New(errors.ErrCodeParseError, "expected %d fields, got %d", NumFields, len(f))
	}
	upper, err := ParseBool(f[15])
	if err != nil {
		return DataRecord{}, err
	}
	return DataRecord{
		Quantity:     truncate(f[0], maxQuantityLen),
		SubExp:       truncate(f[1], maxSubExpLen),
		EAxis:        truncate(f[2], maxEAxisLen),
		EMean:        ParseFloatOrNaN(f[3]),
		ELow:         ParseFloatOrNaN(f[4]),
		EHigh:        ParseFloatOrNaN(f[5]),
		Value:        ParseFloatOrNaN(f[6]),
		ErrStatMinus: ParseFloatOrNaN(f[7]),
		ErrStatPlus:  ParseFloatOrNaN(f[8]),
		ErrSysMinus:  ParseFloatOrNaN(f[9]),
		ErrSysPlus:   ParseFloatOrNaN(f[10]),
		ADSURL:       truncate(f[11], maxADSURLLen),
		PhiInMV:      ParseFloatOrNaN(f[12]),
		DistanceInAU: ParseFloatOrNaN(f[13]),
		Datetime:     truncate(f[14], maxDatetimeLen),
		IsUpperLimit: upper,
	}, nil
}

// ParseFloatOrNaN parses s as a float64. Empty or malformed input yields
// NaN instead of an error.
func ParseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nan
	}
	return v
}

// ParseBool parses the upper-limit flag. It accepts 1/0, true/false, t/f,
// yes/no and y/n in any case; an empty cell is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true, nil
	case "0", "false", "f", "no", "n", "":
		return false, nil
	}
	return false, errors.New(errors.ErrCodeParseError, "invalid boolean %q", s)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// repairAmpersands rewrites "&amp;" to "&" in sub_exp. Each distinct value
// is rewritten once and the result shared by every row holding it.
func repairAmpersands(t Table) {
	fixed := make(map[string]string)
	for i := range t {
		sub := t[i].SubExp
		if !strings.Contains(sub, "&amp;") {
			continue
		}
		r, ok := fixed[sub]
		if !ok {
			r = strings.ReplaceAll(sub, "&amp;", "&")
			fixed[sub] = r
		}
		t[i].SubExp = r
	}
}
