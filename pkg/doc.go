// Package pkg holds the public libraries of crdb, a client for the
// Cosmic-Ray DataBase (CRDB, https://lpsc.in2p3.fr/crdb).
//
// # Overview
//
//  1. [crdb] - Query parameters, URL builder, response parser, experiment masks and the client
//  2. [cache] - Response caching (file, memory, Redis, none)
//  3. [integrations] - The HTTP executor with its 120 s timeout
//  4. [io] - CSV, TSV and JSON import/export of parsed tables
//  5. [errors] - Coded errors shared by all layers
//  6. [observability] - Query, cache and HTTP hooks with an OpenTelemetry implementation
//
// # Data Flow
//
//	QueryParameters
//	       ↓
//	  [crdb.BuildURL]
//	       ↓
//	  [integrations.Client] (through [cache])
//	       ↓
//	  [crdb.ParseResponse] → Table → [crdb.ExperimentMasks]
//	       ↓
//	  table / CSV / TSV / JSON
//
// # Quick Start
//
//	client := crdb.NewClient(cache.NewMemoryCache())
//	p := crdb.DefaultParameters("B")
//	p.Den = "C"
//	table, err := client.Query(ctx, p)
//	if err != nil {
//	    return err
//	}
//	for name, mask := range crdb.ExperimentMasks(table) {
//	    fmt.Println(name, mask.Count())
//	}
//
// [crdb]: github.com/matzehuels/crdb/pkg/crdb
// [cache]: github.com/matzehuels/crdb/pkg/cache
// [integrations]: github.com/matzehuels/crdb/pkg/integrations
// [io]: github.com/matzehuels/crdb/pkg/io
// [errors]: github.com/matzehuels/crdb/pkg/errors
// [observability]: github.com/matzehuels/crdb/pkg/observability
// [crdb.BuildURL]: github.com/matzehuels/crdb/pkg/crdb.BuildURL
// [integrations.Client]: github.com/matzehuels/crdb/pkg/integrations.Client
// [crdb.ParseResponse]: github.com/matzehuels/crdb/pkg/crdb.ParseResponse
// [crdb.ExperimentMasks]: github.com/matzehuels/crdb/pkg/crdb.ExperimentMasks
package pkg
