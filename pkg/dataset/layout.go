package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Layout locates the files of a dataset directory:
//
//	<root>/<name>.jsonl              annotation export
//	<root>/<name>/                   downloaded images
//	<root>/<name>/page/              PAGE-XML documents
//	<root>/<name>/preview/           region preview PDFs
//	<root>/log_<name>.txt            download log
//	<root>/<name>_xml_log.txt        PAGE-XML log
type Layout struct {
	Root string
}

// Collection is the set of paths belonging to one export
type Collection struct {
	Name            string
	JSONL           string
	ImageDir        string
	PageDir         string
	PreviewDir      string
	DownloadLogPath string
	XMLLogPath      string
}

// JSONLFiles lists the exports in the dataset, sorted by name
func (l Layout) JSONLFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(l.Root, "*.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to list exports in %s: %w", l.Root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Collection returns the paths for the export at jsonl
func (l Layout) Collection(jsonl string) Collection {
	name := CollectionName(jsonl)
	imageDir := filepath.Join(l.Root, name)
	return Collection{
		Name:            name,
		JSONL:           jsonl,
		ImageDir:        imageDir,
		PageDir:         filepath.Join(imageDir, "page"),
		PreviewDir:      filepath.Join(imageDir, "preview"),
		DownloadLogPath: filepath.Join(l.Root, "log_"+name+".txt"),
		XMLLogPath:      filepath.Join(l.Root, name+"_xml_log.txt"),
	}
}

// CollectionName is the base name of an export up to its first dot
func CollectionName(jsonl string) string {
	name, _, _ := strings.Cut(filepath.Base(jsonl), ".")
	return name
}
