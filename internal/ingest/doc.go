// Package ingest provides the load pipeline that turns a Traktor collection
// file into an entity graph.
//
// # Manager
//
// The Manager coordinates the entire load:
//
//  1. Open the source (local file or http/https URL)
//  2. Stream it through the nml parser
//  3. Feed every record to a collection builder
//  4. Report progress, skipped records and metrics
//
// # Basic Usage
//
//	manager := ingest.NewManager(settings, func(event ingest.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	result, err := manager.Load(ctx, "/path/to/collection.nml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Data.TrackCount())
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte and record counters can be polled with GetProgress from another
// goroutine while Load runs.
//
// # Failures
//
// A malformed record is skipped and the load goes on. A read or structural
// error ends the load; Load then returns the records applied so far together
// with the error, so callers can decide whether a partial graph is usable.
//
// # Metrics
//
// Pass WithMetrics(ingest.NewMetrics(registry)) to count records, skips,
// bytes and load durations in Prometheus collectors.
package ingest
