// Package records provides types for reading and writing the append-only
// record log produced by the harvest downloader.
//
// The log is newline-delimited JSON: one self-contained record per line,
// holding the payload fetched for a single accession. Records are never
// updated or deleted; resuming an interrupted run may append a duplicate
// line for an accession, so consumers must tolerate duplicates.
//
// # Record Shapes
//
// A record carries exactly one of two payload shapes:
//
//	{"accession": "KX123456", "data": <payload>}   structured payload
//	{"accession": "KX123456", "raw": "..."}        body was not valid JSON
//
// The raw shape is not an error: the fetch layer stores unparseable
// response bodies verbatim for later inspection.
//
// # Writing
//
// Use [NewWriter] to open a log for appending. [Writer.Append] marshals a
// record to a single line and writes it with one write call followed by a
// sync, serialized by an internal mutex, so concurrent appends never
// interleave and an interrupted process leaves at most one torn final line.
//
// # Reading
//
// Use [NewScanner] to stream records back. The scanner skips blank lines
// and lines that fail to parse, counting them via [Scanner.Skipped], and
// makes no ordering or uniqueness guarantees.
package records
