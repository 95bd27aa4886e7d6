package crdb

import (
	"slices"
	"strings"
)

// Elements are the element codes known to CRDB, ordered by charge.
var Elements = []string{
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U",
}

// Isotopes are the isotope codes known to CRDB.
var Isotopes = []string{
	"1H", "2H", "3He", "4He", "6Li", "7Li", "7Be", "9Be", "10Be",
	"10B", "11B", "12C", "13C", "14C", "14N", "15N", "16O", "17O", "18O",
	"19F", "20Ne", "21Ne", "22Ne", "23Na", "24Mg", "25Mg", "26Mg",
	"26Al", "27Al", "28Si", "29Si", "30Si", "31P", "32S", "33S", "34S",
	"35Cl", "36Cl", "37Cl", "36Ar", "38Ar", "40Ar", "39K", "40K", "41K",
	"40Ca", "41Ca", "42Ca", "43Ca", "44Ca", "48Ca", "45Sc",
	"46Ti", "47Ti", "48Ti", "49Ti", "50Ti", "50V", "51V",
	"50Cr", "52Cr", "53Cr", "54Cr", "53Mn", "54Mn", "55Mn",
	"54Fe", "55Fe", "56Fe", "57Fe", "58Fe", "60Fe", "59Co", "60Co",
	"56Ni", "58Ni", "59Ni", "60Ni", "61Ni", "62Ni", "64Ni",
}

// Particles are the non-nuclear and antimatter codes known to CRDB.
var Particles = []string{
	"e-", "e+", "e-+e+", "1H-bar", "2H-bar", "3He-bar", "4He-bar", "gamma",
}

// Groups are the charge-group codes known to CRDB.
var Groups = []string{
	"LiBeB", "CNO", "NeMgSi", "SubFe", "Fe-group", "Z>30",
}

var known = func() map[string]bool {
	m := make(map[string]bool)
	for _, list := range [][]string{Elements, Isotopes, Particles, Groups} {
		for _, q := range list {
			m[q] = true
		}
	}
	return m
}()

// KnownQuantities returns every known code, sorted.
func KnownQuantities() []string {
	out := make([]string, 0, len(known))
	for q := range known {
		out = append(out, q)
	}
	slices.Sort(out)
	return out
}

// IsKnownQuantity reports whether q is a known num/den code. [BuildURL] does
// not consult this list; the server remains the authority.
func IsKnownQuantity(q string) bool {
	return known[q]
}

// FilterQuantities returns the known codes containing substr, ignoring case.
func FilterQuantities(substr string) []string {
	all := KnownQuantities()
	if substr == "" {
		return all
	}
	substr = strings.ToLower(substr)
	out := all[:0]
	for _, q := range all {
		if strings.Contains(strings.ToLower(q), substr) {
			out = append(out, q)
		}
	}
	return out
}
