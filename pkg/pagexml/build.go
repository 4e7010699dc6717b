package pagexml

import (
	"fmt"
	"time"

	"github.com/gardar/spanpage/pkg/annotation"
)

const (
	orderedGroupID      = "1234_0"
	orderedGroupCaption = "Regions reading order"

	customText         = "readingOrder {index:0;}"
	customMarginalia   = "readingOrder {index:0;} structure {type:marginalia;}"
	customCaption      = "readingOrder {index:0;} structure {type:caption;}"
	customIllustration = "readingOrder {index:1;}"

	// TimestampLayout is the layout of Created and LastChanged values
	TimestampLayout = "2006-01-02T15:04:05.000-07:00"
)

// WriteMode selects when a document is written while its regions are added
type WriteMode int

const (
	// WriteFinal writes the finished document once
	WriteFinal WriteMode = iota
	// WriteIncremental rewrites the whole file after every span
	WriteIncremental
)

// Options controls document construction
type Options struct {
	Metadata   Metadata  // Values for the Metadata block
	UniqueIDs  bool      // Give every region its own id instead of sharing region_main
	TrimPoints bool      // Drop the trailing space after the last vertex
	Mode       WriteMode // When the Writer puts the document on disk
}

// DefaultOptions returns options producing documents identical to the existing datasets
func DefaultOptions() Options {
	return Options{
		Metadata: DefaultMetadata(),
		Mode:     WriteFinal,
	}
}

// DefaultMetadata is the fixed metadata block of the existing datasets
func DefaultMetadata() Metadata {
	return Metadata{
		Creator:     "Transkribus",
		Created:     "2022-09-06T12:00:26.622+02:00",
		LastChanged: "2022-09-06T12:02:29.072+02:00",
	}
}

// MetadataAt returns metadata stamped with t for both creation and last change
func MetadataAt(creator string, t time.Time) Metadata {
	stamp := t.Format(TimestampLayout)
	return Metadata{
		Creator:     creator,
		Created:     stamp,
		LastChanged: stamp,
	}
}

// Build converts one annotation record into a PAGE-XML document.
// Spans with unknown labels are skipped. The only error is a malformed record.
func Build(rec annotation.Record, opts Options) (*PcGts, error) {
	b, err := newBuilder(rec, opts)
	if err != nil {
		return nil, err
	}
	for _, span := range rec.Spans {
		b.add(span)
	}
	return b.doc, nil
}

// builder accumulates regions on a document
type builder struct {
	doc        *PcGts
	opts       Options
	textCount  int
	imageCount int
}

// newBuilder creates the document skeleton: metadata, page and reading order
func newBuilder(rec annotation.Record, opts Options) (*builder, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	doc := &PcGts{
		Metadata: opts.Metadata,
		Page: Page{
			ImageFilename: rec.URLImageName(),
			ImageWidth:    rec.Width,
			ImageHeight:   rec.Height,
			ReadingOrder: ReadingOrder{
				OrderedGroup: OrderedGroup{
					ID:      orderedGroupID,
					Caption: orderedGroupCaption,
					Refs: []RegionRefIndexed{
						{Index: 0, RegionRef: MainRegionID},
					},
				},
			},
		},
	}

	return &builder{doc: doc, opts: opts}, nil
}

// add appends the region for span and reports whether one was added
func (b *builder) add(span annotation.Span) bool {
	points := FormatPoints(span.Points, b.opts.TrimPoints)

	var region Region
	switch span.Label {
	case annotation.LabelTextArea:
		region = NewRegion(TextRegion, b.textID(), customText, points)
	case annotation.LabelMargin:
		region = NewRegion(TextRegion, b.textID(), customMarginalia, points)
	case annotation.LabelCaption:
		region = NewRegion(TextRegion, b.textID(), customCaption, points)
	case annotation.LabelIllustration:
		region = NewRegion(ImageRegion, b.imageID(), customIllustration, points)
	default:
		return false
	}

	b.doc.Page.Regions = append(b.doc.Page.Regions, region)
	return true
}

// textID returns the id for the next text region
func (b *builder) textID() string {
	defer func() { b.textCount++ }()
	if !b.opts.UniqueIDs || b.textCount == 0 {
		return MainRegionID
	}
	return fmt.Sprintf("%s_%d", MainRegionID, b.textCount)
}

// imageID returns the id for the next image region, empty unless ids are unique
func (b *builder) imageID() string {
	defer func() { b.imageCount++ }()
	if !b.opts.UniqueIDs {
		return ""
	}
	return fmt.Sprintf("image_%d", b.imageCount)
}
