// Package pagexml builds, writes and parses PAGE-XML documents (PAGE-GTS 2013-07-15)
// describing the layout regions of a single page image.
//
// This package provides:
//
// - An object model for the subset of PAGE-XML used by annotated page datasets
// - A builder mapping labelled span annotations onto TextRegion and ImageRegion elements
// - Pretty-printed generation from an embedded template
// - An idempotent file writer that never overwrites an existing document
// - Parsing of PAGE-XML back into the object model
//
// Region mapping:
//
//	Text-Area     -> TextRegion  id=region_main  custom="readingOrder {index:0;}"
//	Margin        -> TextRegion  id=region_main  custom="readingOrder {index:0;} structure {type:marginalia;}"
//	Caption       -> TextRegion  id=region_main  custom="readingOrder {index:0;} structure {type:caption;}"
//	Illustration  -> ImageRegion                 custom="readingOrder {index:1;}"
//
// Any other label is skipped.
//
// Main Functions:
//
// - Build: converts one annotation record into a PcGts document
// - GeneratePageXML: renders a document as pretty-printed XML
// - Writer.WriteRecord: builds and writes <dir>/<image>.xml unless it already exists
// - ParsePageXML: reads a PAGE-XML document into the object model
package pagexml
