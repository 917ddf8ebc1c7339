// Package nml turns a Traktor collection document into a stream of records.
//
// A collection.nml file has two sections the package cares about:
//
//	<NML>
//	  <COLLECTION>
//	    <ENTRY TITLE="..." ARTIST="...">
//	      <LOCATION VOLUME="..." DIR="..." FILE="..."/>
//	      <ALBUM TITLE="..." TRACK="..."/>
//	      <INFO PLAYTIME_FLOAT="..."/>
//	      <TEMPO BPM="..."/>
//	    </ENTRY>
//	  </COLLECTION>
//	  <PLAYLISTS>
//	    <NODE TYPE="FOLDER" NAME="$ROOT">
//	      <SUBNODES>
//	        <NODE TYPE="PLAYLIST" NAME="...">
//	          <PLAYLIST><ENTRY><PRIMARYKEY TYPE="TRACK" KEY="..."/></ENTRY></PLAYLIST>
//	        </NODE>
//	      </SUBNODES>
//	    </NODE>
//	  </PLAYLISTS>
//	</NML>
//
// # Parsing
//
// Parser reads XML tokens one at a time and returns one Node per ENTRY
// (KindTrack) or playlist NODE (KindPlaylist). The document is never held in
// memory; only the record being assembled is.
//
//	parser := nml.NewParser(file)
//	for {
//	    node, err := parser.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use node
//	}
//
// The stream is forward-only: once Next has returned io.EOF or an error, it
// keeps returning it. Parse the document again with a fresh reader.
//
// Content outside COLLECTION and PLAYLISTS is skipped. Inside PLAYLISTS only
// nodes with TYPE="PLAYLIST" become records, wherever they sit in the folder
// tree.
//
// # Field Extraction
//
// Node offers lookups over the record attributes and child elements:
//
//	title, ok := node.Attr(nml.AttrTitle)
//	bpm, ok := nml.ParseFloat64(node.ChildAttr(nml.TagTempo, nml.AttrBPM))
//
// Numeric parsing is best-effort: a malformed value is reported as absent.
package nml
