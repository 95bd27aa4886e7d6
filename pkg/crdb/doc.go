// Package crdb queries the Cosmic-Ray DataBase (CRDB) hosted at
// https://lpsc.in2p3.fr/crdb.
//
// # Overview
//
// A query runs in three steps, each available on its own:
//
//   - [BuildURL] turns [QueryParameters] into a deterministic query URL
//   - [ParseResponse] turns the server's text reply into a [Table]
//   - [ExperimentMasks] groups the rows of a table by experiment
//
// [BuildURL] and [ParseResponse] are pure functions. [Client] composes them
// with an HTTP fetch and an optional response cache.
//
// # Usage
//
//	c := crdb.NewClient(fileCache, crdb.WithLogger(logger))
//	p := crdb.DefaultParameters("B")
//	p.Den = "C"
//	table, err := c.Query(ctx, p)
//	if err != nil {
//	    return err
//	}
//	for name, mask := range crdb.ExperimentMasks(table) {
//	    fmt.Println(name, mask.Count())
//	}
//
// # Errors
//
// Failures carry codes from [github.com/matzehuels/crdb/pkg/errors]:
// INVALID_PARAMETER before any network access, TIMEOUT or NETWORK_ERROR from
// the fetch, QUERY_ERROR when the server answers with a one-line message,
// and PARSE_ERROR when a row does not have 16 fields.
package crdb
