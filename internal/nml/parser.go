package nml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrMalformedDocument is returned when the element structure does not match a
// collection document, such as a section closing while a record is still open.
var ErrMalformedDocument = errors.New("malformed collection document")

// SourceError reports a failure of the underlying token source.
//
// It ends the parse. Offset is the input byte offset when the source exposes
// one, or -1.
type SourceError struct {
	Offset int64
	Err    error
}

func (e *SourceError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("read collection: %v", e.Err)
	}
	return fmt.Sprintf("read collection at byte %d: %v", e.Offset, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// TokenSource produces XML tokens. It returns io.EOF at the end of the
// document. *xml.Decoder satisfies it.
type TokenSource interface {
	Token() (xml.Token, error)
}

type offsetter interface {
	InputOffset() int64
}

type section int

const (
	sectionNone section = iota
	sectionCollection
	sectionPlaylists
)

func (s section) tag() string {
	switch s {
	case sectionCollection:
		return TagCollection
	case sectionPlaylists:
		return TagPlaylists
	default:
		return ""
	}
}

// Parser assembles records from a token stream.
//
// Parser is not safe for concurrent use.
type Parser struct {
	src TokenSource

	section section
	// depth counts the elements open inside the current section root.
	depth int

	record      *Node
	recordDepth int

	err error
}

// NewParser creates a Parser reading XML from r.
func NewParser(r io.Reader) *Parser {
	return NewParserFromSource(xml.NewDecoder(r))
}

// NewParserFromSource creates a Parser over an existing token source.
func NewParserFromSource(src TokenSource) *Parser {
	return &Parser{src: src}
}

// Next returns the next complete record.
//
// It returns io.EOF once the document has ended. A failing token source
// yields a *SourceError and a structural problem an error wrapping
// ErrMalformedDocument. Both end the stream.
func (p *Parser) Next() (Node, error) {
	if p.err != nil {
		return Node{}, p.err
	}

	for {
		tok, err := p.src.Token()
		if err != nil {
			return Node{}, p.fail(p.sourceError(err))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return Node{}, p.fail(err)
			}

		case xml.EndElement:
			node, done, err := p.end(t)
			if err != nil {
				return Node{}, p.fail(err)
			}
			if done {
				return node, nil
			}
		}
	}
}

// All returns an iterator over the remaining records. Iteration stops after
// the last record or after yielding an error.
//
// Example:
//
//	for node, err := range parser.All() {
//	    if err != nil {
//	        return err
//	    }
//	    builder.Ingest(node)
//	}
func (p *Parser) All() iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		for {
			node, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Node{}, err)
				return
			}
			if !yield(node, nil) {
				return
			}
		}
	}
}

func (p *Parser) start(t xml.StartElement) error {
	name := t.Name.Local

	if p.section == sectionNone {
		switch name {
		case TagCollection:
			p.enter(sectionCollection)
		case TagPlaylists:
			p.enter(sectionPlaylists)
		}
		return nil
	}

	if name == TagCollection || name == TagPlaylists {
		return fmt.Errorf("%w: %s nested inside %s", ErrMalformedDocument, name, p.section.tag())
	}

	switch {
	case p.record != nil:
		p.record.Children = append(p.record.Children, Element{
			Name:  name,
			Attrs: convertAttrs(t.Attr),
		})
	case p.isRecordHeader(t):
		p.record = &Node{
			Kind:  p.recordKind(),
			Tag:   name,
			Attrs: convertAttrs(t.Attr),
		}
		p.recordDepth = p.depth
	}

	p.depth++
	return nil
}

func (p *Parser) end(t xml.EndElement) (Node, bool, error) {
	name := t.Name.Local

	if p.section == sectionNone {
		return Node{}, false, nil
	}

	if p.depth == 0 {
		if name != p.section.tag() {
			return Node{}, false, fmt.Errorf("%w: unexpected </%s> in %s", ErrMalformedDocument, name, p.section.tag())
		}
		if p.record != nil {
			return Node{}, false, fmt.Errorf("%w: %s closed with an open %s record", ErrMalformedDocument, name, p.record.Tag)
		}
		p.section = sectionNone
		return Node{}, false, nil
	}

	p.depth--
	if p.record == nil || p.depth != p.recordDepth {
		return Node{}, false, nil
	}

	if name != p.record.Tag {
		return Node{}, false, fmt.Errorf("%w: </%s> closes an open %s record", ErrMalformedDocument, name, p.record.Tag)
	}

	node := *p.record
	p.record = nil
	return node, true, nil
}

func (p *Parser) enter(s section) {
	p.section = s
	p.depth = 0
	p.record = nil
}

func (p *Parser) isRecordHeader(t xml.StartElement) bool {
	switch p.section {
	case sectionCollection:
		return t.Name.Local == TagEntry
	case sectionPlaylists:
		if t.Name.Local != TagNode {
			return false
		}
		for _, a := range t.Attr {
			if a.Name.Local == AttrType {
				return a.Value == TypePlaylist
			}
		}
	}
	return false
}

func (p *Parser) recordKind() Kind {
	if p.section == sectionPlaylists {
		return KindPlaylist
	}
	return KindTrack
}

func (p *Parser) sourceError(err error) error {
	if errors.Is(err, io.EOF) {
		if p.section == sectionNone {
			return io.EOF
		}
		err = io.ErrUnexpectedEOF
	}

	offset := int64(-1)
	if o, ok := p.src.(offsetter); ok {
		offset = o.InputOffset()
	}
	return &SourceError{Offset: offset, Err: err}
}

func (p *Parser) fail(err error) error {
	p.err = err
	p.record = nil
	return err
}
