package pagexml

import "encoding/xml"

const (
	// Namespace of the PAGE-GTS 2013-07-15 schema
	Namespace = "http://schema.primaresearch.org/PAGE/gts/pagecontent/2013-07-15"
	// XSINamespace is the XML Schema instance namespace
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// SchemaLocation pairs the namespace with its XSD
	SchemaLocation = Namespace + " " + Namespace + "/pagecontent.xsd"

	// MainRegionID is the region every text region refers to in the reading order
	MainRegionID = "region_main"
)

// RegionKind is the element name of a region
type RegionKind string

const (
	TextRegion  RegionKind = "TextRegion"
	ImageRegion RegionKind = "ImageRegion"
)

// PcGts is the root of a PAGE-XML document
type PcGts struct {
	XMLName  xml.Name `xml:"PcGts"`
	Metadata Metadata `xml:"Metadata"`
	Page     Page     `xml:"Page"`
}

// Metadata holds document provenance
type Metadata struct {
	Creator     string `xml:"Creator"`
	Created     string `xml:"Created"`
	LastChanged string `xml:"LastChanged"`
}

// Page describes the page image and its regions
type Page struct {
	ImageFilename string       `xml:"imageFilename,attr"`
	ImageWidth    int          `xml:"imageWidth,attr"`
	ImageHeight   int          `xml:"imageHeight,attr"`
	ReadingOrder  ReadingOrder `xml:"ReadingOrder"`
	Regions       []Region     `xml:",any"` // TextRegion and ImageRegion elements in document order
}

// ReadingOrder declares how regions are meant to be read
type ReadingOrder struct {
	OrderedGroup OrderedGroup `xml:"OrderedGroup"`
}

// OrderedGroup is an ordered list of region references
type OrderedGroup struct {
	ID      string             `xml:"id,attr"`
	Caption string             `xml:"caption,attr"`
	Refs    []RegionRefIndexed `xml:"RegionRefIndexed"`
}

// RegionRefIndexed points at a region by id at a position in the reading order
type RegionRefIndexed struct {
	Index     int    `xml:"index,attr"`
	RegionRef string `xml:"regionRef,attr"`
}

// Region is a TextRegion or ImageRegion; the element name is kept in XMLName
type Region struct {
	XMLName xml.Name
	ID      string `xml:"id,attr,omitempty"`
	Custom  string `xml:"custom,attr"`
	Coords  Coords `xml:"Coords"`
}

// Kind returns the element type of the region
func (r Region) Kind() RegionKind { return RegionKind(r.XMLName.Local) }

// Structure returns the structure type from the custom attribute, e.g. "marginalia"
func (r Region) Structure() string {
	return ParseCustom(r.Custom)["structure"]["type"]
}

// Coords is the polygon outline of a region
type Coords struct {
	Points string `xml:"points,attr"` // "x,y x,y ..." vertex list
}

// NewRegion creates a region element of the given kind
func NewRegion(kind RegionKind, id, custom, points string) Region {
	return Region{
		XMLName: xml.Name{Local: string(kind)},
		ID:      id,
		Custom:  custom,
		Coords:  Coords{Points: points},
	}
}
