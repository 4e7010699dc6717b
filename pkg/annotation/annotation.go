// Package annotation reads span annotation records from JSON Lines exports and sorts them
// into the categories the rest of the pipeline works with.
//
// Each line of an export is one JSON object describing a page image:
//
//	{"id":"p1.jpg","image":"http://host/p1.jpg?sz=1","width":100,"height":200,
//	 "spans":[{"label":"Text-Area","points":[[0,0],[10,0],[10,10],[0,10]]}]}
//
// The package provides:
//
// - Record, Span and Point types mirroring one exported line
// - A Reader that decodes legacy encodings, strips byte order marks and validates records
// - Partitioning into valid, duplicate, missing-annotation and malformed entries
// - Helpers deriving image names from record ids and image URLs
//
// Main Functions:
//
// - NewReader / ReadFile: read a JSON Lines export into a Batch
// - Batch.Index: map image names to their valid records
// - ImageNameFromURL / ImageNameFromID: derive file base names
package annotation
