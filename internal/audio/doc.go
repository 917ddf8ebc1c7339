// Package audio checks the audio files behind a collection.
//
// # Tag Audit
//
// Use the Auditor to compare collection metadata with the ID3 tags of the
// referenced MP3 files:
//
//	auditor := audio.NewAuditor(&audio.AuditConfig{
//	    Title:        true,
//	    Artist:       true,
//	    BPM:          true,
//	    BPMTolerance: 0.5,
//	    VolumeRoots:  settings.VolumeRoots,
//	})
//	findings, err := auditor.AuditAll(ctx, data, settings.AuditWorkers, nil)
//
// The auditor compares:
//   - Title (TIT2) and Artist (TPE1)
//   - Album Title (TALB)
//   - Track Number (TRCK, "3" or "3/12")
//   - Tempo (TBPM) within a tolerance
//
// Files are opened read-only and several at a time. A file that cannot be
// read yields a Finding with Err set; the audit goes on.
//
// # Artwork
//
// ReadArtwork extracts the embedded cover (APIC frame) of a file, for example
// to show a thumbnail in the browser.
package audio
