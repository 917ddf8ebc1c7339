package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bogem/id3v2"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/model"
)

// ErrNoArtwork is returned by ReadArtwork when a file has no attached picture.
var ErrNoArtwork = errors.New("no embedded artwork")

const (
	frameTitle   = "TIT2"
	frameArtist  = "TPE1"
	frameAlbum   = "TALB"
	frameTrack   = "TRCK"
	frameBPM     = "TBPM"
	framePicture = "APIC"
)

// Field names a compared metadata field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldArtist      Field = "artist"
	FieldAlbum       Field = "album"
	FieldTrackNumber Field = "track_number"
	FieldBPM         Field = "bpm"
)

// Mismatch is a field whose collection value differs from the file tag.
type Mismatch struct {
	Field      Field
	Collection string
	Tag        string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: collection %q, tag %q", m.Field, m.Collection, m.Tag)
}

// Finding is the audit result for one track.
type Finding struct {
	TrackID model.TrackID
	Path    string

	// HasTag is false when the file carries no ID3v2 frames at all.
	HasTag     bool
	HasArtwork bool
	Mismatches []Mismatch

	// Err is set when the file could not be read.
	Err error
}

// OK reports whether the file was read and agrees with the collection.
func (f Finding) OK() bool {
	return f.Err == nil && len(f.Mismatches) == 0
}

// AuditConfig selects the compared fields.
//
// Example:
//
//	cfg := &AuditConfig{
//	    Title:        true,
//	    Artist:       true,
//	    Album:        false, // compilations often differ
//	    TrackNumber:  true,
//	    BPM:          true,
//	    BPMTolerance: 0.5,
//	}
type AuditConfig struct {
	Title       bool
	Artist      bool
	Album       bool
	TrackNumber bool
	BPM         bool

	// BPMTolerance is the largest accepted tempo difference.
	BPMTolerance float64

	// VolumeRoots maps Traktor volume names to mount points.
	VolumeRoots map[string]string
}

// DefaultAuditConfig compares every field with a tempo tolerance of 0.5 BPM.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Title:        true,
		Artist:       true,
		Album:        true,
		TrackNumber:  true,
		BPM:          true,
		BPMTolerance: 0.5,
	}
}

// Auditor compares collection metadata with the ID3 tags of the audio files.
//
// Auditor never writes to the files it opens.
//
// Example:
//
//	auditor := NewAuditor(DefaultAuditConfig())
//	findings, err := auditor.AuditAll(ctx, data, 8, nil)
//	for _, f := range findings {
//	    if !f.OK() {
//	        fmt.Println(f.Path, f.Mismatches, f.Err)
//	    }
//	}
type Auditor struct {
	config *AuditConfig
}

// NewAuditor creates a new Auditor with the given configuration.
//
// If config is nil, DefaultAuditConfig() is used.
func NewAuditor(config *AuditConfig) *Auditor {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &Auditor{config: config}
}

// TrackPath returns the filesystem path of a track.
func (a *Auditor) TrackPath(track model.Track) string {
	return track.Location.Path(a.config.VolumeRoots)
}

// Audit reads the tag of a single track and compares it with the collection.
func (a *Auditor) Audit(data *collection.Data, track model.Track) Finding {
	finding := Finding{TrackID: track.ID, Path: a.TrackPath(track)}

	tag, err := id3v2.Open(finding.Path, id3v2.Options{Parse: true})
	if err != nil {
		finding.Err = err
		return finding
	}
	defer tag.Close()

	finding.HasTag = tag.Count() > 0
	finding.HasArtwork = len(tag.GetFrames(framePicture)) > 0

	if a.config.Title {
		finding.compare(FieldTitle, track.Title, textFrame(tag, frameTitle))
	}

	if a.config.Artist {
		if artist, ok := data.TrackArtist(track.ID); ok {
			finding.compare(FieldArtist, artist.Name, textFrame(tag, frameArtist))
		}
	}

	if a.config.Album {
		if album, ok := data.TrackAlbum(track.ID); ok {
			finding.compare(FieldAlbum, album.Title, textFrame(tag, frameAlbum))
		}
	}

	if a.config.TrackNumber && track.AlbumTrackNumber != nil {
		want := strconv.Itoa(int(*track.AlbumTrackNumber))
		raw := textFrame(tag, frameTrack)
		if got, ok := trackNumber(raw); !ok || got != *track.AlbumTrackNumber {
			finding.Mismatches = append(finding.Mismatches, Mismatch{Field: FieldTrackNumber, Collection: want, Tag: raw})
		}
	}

	if a.config.BPM && track.BPM != nil {
		raw := textFrame(tag, frameBPM)
		got, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.Abs(got-*track.BPM) > a.config.BPMTolerance {
			finding.Mismatches = append(finding.Mismatches, Mismatch{
				Field:      FieldBPM,
				Collection: strconv.FormatFloat(*track.BPM, 'f', -1, 64),
				Tag:        raw,
			})
		}
	}

	return finding
}

// AuditAll audits every track of the collection with up to workers files
// open at once.
//
// onFinding, if not nil, is called once per finding; calls are serialized.
// Findings are returned in track order. When ctx is cancelled the findings
// collected so far are returned with the context error.
func (a *Auditor) AuditAll(ctx context.Context, data *collection.Data, workers int, onFinding func(Finding)) ([]Finding, error) {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu       sync.Mutex
		findings = make([]Finding, 0, data.TrackCount())
	)

	for track := range data.Tracks() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			finding := a.Audit(data, track)

			mu.Lock()
			defer mu.Unlock()
			findings = append(findings, finding)
			if onFinding != nil {
				onFinding(finding)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	slices.SortFunc(findings, func(x, y Finding) int {
		return int(x.TrackID) - int(y.TrackID)
	})
	return findings, err
}

// ReadArtwork returns the embedded cover of an audio file and its MIME type.
//
// The front cover is preferred; any other attached picture is used otherwise.
func (a *Auditor) ReadArtwork(path string) ([]byte, string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, "", err
	}
	defer tag.Close()

	var fallback *id3v2.PictureFrame
	for _, f := range tag.GetFrames(framePicture) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic.Picture, pic.MimeType, nil
		}
		if fallback == nil {
			fallback = &pic
		}
	}

	if fallback == nil {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNoArtwork)
	}
	return fallback.Picture, fallback.MimeType, nil
}

func (f *Finding) compare(field Field, want, got string) {
	if want != got {
		f.Mismatches = append(f.Mismatches, Mismatch{Field: field, Collection: want, Tag: got})
	}
}

func textFrame(tag *id3v2.Tag, id string) string {
	tf := tag.GetTextFrame(id)
	return strings.TrimSpace(strings.TrimRight(tf.Text, "\x00"))
}

// trackNumber parses a TRCK value such as "3" or "3/12".
func trackNumber(s string) (uint16, bool) {
	s, _, _ = strings.Cut(s, "/")
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}
