// Package collection builds the entity graph of a Traktor collection.
//
// A Builder consumes nml.Node records one at a time and turns them into
// tracks, artists, albums and playlists held by a Data value:
//
//	builder := collection.NewBuilder()
//	for node, err := range parser.All() {
//	    if err != nil {
//	        return err
//	    }
//	    builder.Ingest(node) // a *SkipError only reports a dropped record
//	}
//	data := builder.Data()
//
// # Identity
//
// Tracks are identified by their location key (volume + dir + file). Artists
// are identified by name and albums by title, or by artist and title when the
// builder is created with WithAlbumIdentity(model.AlbumByArtistAndTitle).
// Entities are created on first sight and reused afterwards.
//
// # Record Order
//
// Playlist members are resolved against the tracks ingested before the
// playlist record. A playlist that appears before the tracks it references
// keeps only the members already known. Traktor always writes COLLECTION
// before PLAYLISTS, so complete documents resolve fully.
//
// # Malformed Records
//
// A track without a location or a title, a track whose location was already
// seen, and a playlist without a name are dropped. Ingest validates a record
// before changing anything, so a dropped record leaves no trace in the graph.
//
// # Concurrency
//
// Builder is not safe for concurrent use. Data has no mutators; once building
// is finished it can be shared freely between goroutines.
package collection
