// Package songxml decodes category payloads: XML documents holding a
// sequence of <song> records.
package songxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/cesargomez89/songbook/internal/domain"
)

const songElement = "song"

type songRecord struct {
	Category  string `xml:"category"`
	Name      string `xml:"name"`
	Name2     string `xml:"name2"`
	Font      string `xml:"font"`
	Font2     string `xml:"font2"`
	Key       string `xml:"key"`
	YVideo    string `xml:"yvideo"`
	Slide     string `xml:"slide"`
	Slide2    string `xml:"slide2"`
	Timestamp string `xml:"timestamp"`
	Bkgnd     string `xml:"bkgnd"`
	Copyright string `xml:"copyright"`
	Notes     string `xml:"notes"`
	Tags      string `xml:"tags"`
	SlideSeq  string `xml:"slideseq"`
	SubCat    string `xml:"subcat"`
}

// Parser turns a payload into raw song records in document order.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse returns every <song> element of the document, at any depth. A payload
// with no songs, including an empty one, yields an empty slice. Malformed XML
// fails with an error wrapping domain.ErrParse.
//
// Slide bodies may hold lyric markup (<BR>, <slide>) either literally or
// escaped; both yield the same raw text.
func (p *Parser) Parse(payload []byte) ([]domain.RawSong, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return []domain.RawSong{}, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(escapeSlideBodies(payload)))
	dec.CharsetReader = charsetReader
	dec.Entity = xml.HTMLEntity

	songs := []domain.RawSong{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != songElement {
			continue
		}

		var rec songRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("%w: song %d: %v", domain.ErrParse, len(songs)+1, err)
		}
		songs = append(songs, rec.toRaw())
	}

	return songs, nil
}

func (r songRecord) toRaw() domain.RawSong {
	return domain.RawSong{
		Category: strings.TrimSpace(r.Category),
		Name:     strings.TrimSpace(r.Name),
		Name2:    strings.TrimSpace(r.Name2),
		Fonts: domain.Fonts{
			Primary:   strings.TrimSpace(r.Font),
			Secondary: strings.TrimSpace(r.Font2),
		},
		Key:     strings.TrimSpace(r.Key),
		YouTube: strings.TrimSpace(r.YVideo),
		Lyrics: domain.Lyrics{
			PrimaryRaw:   r.Slide,
			SecondaryRaw: r.Slide2,
			HasDual:      domain.HasDualText(r.Slide2),
		},
		Meta: domain.SongMeta{
			Timestamp: strings.TrimSpace(r.Timestamp),
			Bkgnd:     strings.TrimSpace(r.Bkgnd),
			Copyright: strings.TrimSpace(r.Copyright),
			Notes:     strings.TrimSpace(r.Notes),
			Tags:      strings.TrimSpace(r.Tags),
			SlideSeq:  strings.TrimSpace(r.SlideSeq),
			SubCat:    strings.TrimSpace(r.SubCat),
		},
	}
}

// charsetReader lets documents declare legacy encodings such as windows-1252.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
