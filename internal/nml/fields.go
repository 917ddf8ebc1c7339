package nml

// Element and attribute names used by Traktor collection documents.
const (
	TagCollection = "COLLECTION"
	TagPlaylists  = "PLAYLISTS"

	TagEntry      = "ENTRY"
	TagNode       = "NODE"
	TagAlbum      = "ALBUM"
	TagInfo       = "INFO"
	TagTempo      = "TEMPO"
	TagLocation   = "LOCATION"
	TagPrimaryKey = "PRIMARYKEY"
)

const (
	AttrTitle         = "TITLE"
	AttrArtist        = "ARTIST"
	AttrTrack         = "TRACK"
	AttrPlaytimeFloat = "PLAYTIME_FLOAT"
	AttrPlaytime      = "PLAYTIME"
	AttrBPM           = "BPM"
	AttrVolume        = "VOLUME"
	AttrDir           = "DIR"
	AttrFile          = "FILE"
	AttrKey           = "KEY"
	AttrName          = "NAME"
	AttrType          = "TYPE"
)

// TypePlaylist is the TYPE of a NODE holding a playlist. Folders use "FOLDER".
const TypePlaylist = "PLAYLIST"
