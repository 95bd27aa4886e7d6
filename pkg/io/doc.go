// Package io reads and writes CRDB tables as CSV, TSV and JSON.
//
// # CSV and TSV
//
// [WriteCSV] writes one row per record in [crdb.Columns] order, preceded by
// a '#'-prefixed header. NaN cells are written as "nan" and the upper-limit
// flag as 1 or 0. Because the header is a comment, the output can also be
// fed back to [crdb.ParseResponse]. [ReadCSV] reads it back.
//
// # JSON
//
// [WriteJSON] writes an object with the query URL and the rows:
//
//	{
//	  "url": "https://lpsc.in2p3.fr/crdb/rest.php?num=B&den=C&energy_type=EKN",
//	  "rows": [
//	    {"quantity": "B/C", "sub_exp": "AMS02(2011/05-2016/05)", "e_mean": 1.1, ...}
//	  ]
//	}
//
// JSON has no NaN, so blank numeric cells become null and [ReadJSON] turns
// null back into NaN.
//
// # Files
//
// [Export] picks the format from the file extension (.csv, .tsv, .json).
package io
