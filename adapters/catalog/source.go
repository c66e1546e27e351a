package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"exoml/adapters/excel"
	"exoml/ports"
)

// SourceFor picks a sample source from the catalog file extension.
// An empty path selects the bundled samples.
func SourceFor(filePath, dataPath string) (ports.SampleSource, error) {
	if strings.TrimSpace(filePath) == "" {
		return BuiltinSource{}, nil
	}
	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".json":
		return NewJSONSource(filePath, dataPath), nil
	case ".csv", ".xlsx":
		return excel.NewKOISource(filePath), nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}
