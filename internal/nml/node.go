package nml

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// Kind tells which record a Node was built from.
type Kind int

const (
	// KindTrack is a COLLECTION/ENTRY record.
	KindTrack Kind = iota + 1

	// KindPlaylist is a PLAYLISTS NODE record with TYPE="PLAYLIST".
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a child element of a record, with its own attributes.
type Element struct {
	Name  string
	Attrs []Attr
}

// Attr returns the value of the first attribute named key.
func (e Element) Attr(key string) (string, bool) {
	return lookup(e.Attrs, key)
}

// Node is one complete record of the document.
//
// Attrs are the attributes of the record start tag. Children holds every
// element nested in the record, in document order, flattened.
type Node struct {
	Kind     Kind
	Tag      string
	Attrs    []Attr
	Children []Element
}

// Attr returns the value of the first record attribute named key.
func (n Node) Attr(key string) (string, bool) {
	return lookup(n.Attrs, key)
}

// Child returns the first child element named tag.
func (n Node) Child(tag string) (Element, bool) {
	for _, child := range n.Children {
		if child.Name == tag {
			return child, true
		}
	}
	return Element{}, false
}

// ChildAttr returns attribute key of the first child element named tag.
//
// Example:
//
//	file, ok := node.ChildAttr(TagLocation, AttrFile)
func (n Node) ChildAttr(tag, key string) (string, bool) {
	child, ok := n.Child(tag)
	if !ok {
		return "", false
	}
	return child.Attr(key)
}

// ChildAttrValues returns attribute key of every child carrying it, in order.
// Playlists use it to collect their PRIMARYKEY references.
func (n Node) ChildAttrValues(key string) []string {
	var values []string
	for _, child := range n.Children {
		if v, ok := child.Attr(key); ok {
			values = append(values, v)
		}
	}
	return values
}

// ParseUint16 converts an optional attribute value to uint16.
// A missing or malformed value yields false.
func ParseUint16(s string, ok bool) (uint16, bool) {
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// ParseFloat64 converts an optional attribute value to float64.
// A missing or malformed value yields false; so do NaN and infinities.
func ParseFloat64(s string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func lookup(attrs []Attr, key string) (string, bool) {
	for _, a := range attrs {
		if a.Name == key {
			return a.Value, true
		}
	}
	return "", false
}

func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = Attr{Name: a.Name.Local, Value: a.Value}
	}
	return out
}
