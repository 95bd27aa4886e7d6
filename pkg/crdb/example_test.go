package crdb_test

import (
	"fmt"

	"github.com/matzehuels/crdb/pkg/crdb"
)

func ExampleBuildURL() {
	p := crdb.DefaultParameters("e+")
	p.EnergyType = "ekn"
	p.ComboLevel = 0

	url, err := crdb.BuildURL(p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(url)
	// Output: https://lpsc.in2p3.fr/crdb/rest.php?num=e%2B&energy_type=EKN&combo_level=0
}

func ExampleParseResponse() {
	text := "B/C AMS02(2011/05-2016/05) EKN 1.0 0.9 1.1 0.3 0.01 0.01 0.02 0.02 2016PhRvL 500 1 - 0\n" +
		"B/C AMS02&amp;PAMELA EKN 2.0 1.9 2.1 0.2 0.01 0.01 0.02 0.02 2016PhRvL 500 1 - 1\n"

	table, err := crdb.ParseResponse(text, "")
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, r := range table {
		fmt.Println(r.SubExp, r.EMean, r.IsUpperLimit)
	}
	// Output:
	// AMS02(2011/05-2016/05) 1 false
	// AMS02&PAMELA 2 true
}

func ExampleExperimentMasks() {
	table := crdb.Table{
		{SubExp: "AMS02(2011)"},
		{SubExp: "PAMELA(2010)"},
		{SubExp: "AMS02(2015)"},
	}
	masks := crdb.ExperimentMasks(table)
	fmt.Println(masks["AMS02"].Indices(), masks["PAMELA"].Indices())
	// Output: [0 2] [1]
}

func ExampleParseResponse_serverError() {
	_, err := crdb.ParseResponse("unknown particle", "")
	fmt.Println(err)
	// Output: QUERY_ERROR: unknown particle
}
