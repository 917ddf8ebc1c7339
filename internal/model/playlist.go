package model

// PlaylistID is the index of a Playlist in its owning collection.
type PlaylistID int

// Playlist is a named, ordered list of tracks.
//
// Members are resolved when the playlist is ingested, against the tracks
// known at that point. Entries referring to unknown tracks are not kept.
type Playlist struct {
	ID       PlaylistID
	Name     string
	TrackIDs []TrackID
}

// Len returns the number of resolved members.
func (p Playlist) Len() int {
	return len(p.TrackIDs)
}
