package nml

import (
	"reflect"
	"testing"
)

func testNode() Node {
	return Node{
		Kind:  KindTrack,
		Tag:   TagEntry,
		Attrs: []Attr{{Name: AttrTitle, Value: "Song"}, {Name: AttrArtist, Value: ""}},
		Children: []Element{
			{Name: TagLocation, Attrs: []Attr{{Name: AttrVolume, Value: "C:"}, {Name: AttrDir, Value: "/:m/:"}, {Name: AttrFile, Value: "a.mp3"}}},
			{Name: TagAlbum, Attrs: []Attr{{Name: AttrTitle, Value: "LP"}, {Name: AttrTrack, Value: "7"}}},
			{Name: TagTempo, Attrs: []Attr{{Name: AttrBPM, Value: "N/A"}}},
			{Name: TagAlbum, Attrs: []Attr{{Name: AttrTitle, Value: "Second"}}},
		},
	}
}

func TestNode_Attr(t *testing.T) {
	n := testNode()

	if v, ok := n.Attr(AttrTitle); !ok || v != "Song" {
		t.Errorf("Attr(TITLE) = %q, %v", v, ok)
	}
	if v, ok := n.Attr(AttrArtist); !ok || v != "" {
		t.Errorf("Attr(ARTIST) = %q, %v, want empty but present", v, ok)
	}
	if _, ok := n.Attr("MISSING"); ok {
		t.Error("Attr(MISSING) should be absent")
	}
}

func TestNode_ChildAttr(t *testing.T) {
	n := testNode()

	tests := []struct {
		tag, key string
		want     string
		wantOK   bool
	}{
		{TagLocation, AttrFile, "a.mp3", true},
		{TagAlbum, AttrTitle, "LP", true},
		{TagAlbum, AttrTrack, "7", true},
		{TagInfo, AttrPlaytime, "", false},
		{TagLocation, AttrKey, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.key, func(t *testing.T) {
			got, ok := n.ChildAttr(tt.tag, tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ChildAttr(%s, %s) = %q, %v; want %q, %v", tt.tag, tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNode_ChildAttrValues(t *testing.T) {
	n := Node{
		Kind: KindPlaylist,
		Children: []Element{
			{Name: "PLAYLIST"},
			{Name: TagEntry},
			{Name: TagPrimaryKey, Attrs: []Attr{{Name: AttrType, Value: "TRACK"}, {Name: AttrKey, Value: "A"}}},
			{Name: TagEntry},
			{Name: TagPrimaryKey, Attrs: []Attr{{Name: AttrKey, Value: "B"}}},
		},
	}

	got := n.ChildAttrValues(AttrKey)
	if want := []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ChildAttrValues() = %v, want %v", got, want)
	}
	if got := n.ChildAttrValues(AttrName); got != nil {
		t.Errorf("ChildAttrValues(NAME) = %v, want nil", got)
	}
}

func TestParseUint16(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		want   uint16
		wantOK bool
	}{
		{"7", true, 7, true},
		{" 12 ", true, 12, true},
		{"65535", true, 65535, true},
		{"65536", true, 0, false},
		{"-1", true, 0, false},
		{"3/12", true, 0, false},
		{"", true, 0, false},
		{"5", false, 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseUint16(tt.in, tt.ok)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseUint16(%q, %v) = %d, %v; want %d, %v", tt.in, tt.ok, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseFloat64(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		want   float64
		wantOK bool
	}{
		{"128.000", true, 128, true},
		{"245.5", true, 245.5, true},
		{" 90 ", true, 90, true},
		{"N/A", true, 0, false},
		{"NaN", true, 0, false},
		{"Inf", true, 0, false},
		{"", true, 0, false},
		{"120", false, 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseFloat64(tt.in, tt.ok)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFloat64(%q, %v) = %v, %v; want %v, %v", tt.in, tt.ok, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBPMNotANumberIsAbsent(t *testing.T) {
	n := testNode()
	if _, ok := ParseFloat64(n.ChildAttr(TagTempo, AttrBPM)); ok {
		t.Error(`BPM="N/A" should parse as absent`)
	}
}

func TestKind_String(t *testing.T) {
	if KindTrack.String() != "track" || KindPlaylist.String() != "playlist" || Kind(0).String() != "unknown" {
		t.Errorf("unexpected kind names: %s %s %s", KindTrack, KindPlaylist, Kind(0))
	}
}
