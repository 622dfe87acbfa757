package file

import (
	"fmt"
	"os"

	"akasha/internal/collectors"
	"akasha/internal/logger"
)

// FileCollector reads a subscription document from disk.
type FileCollector struct{}

func (c *FileCollector) Collect(config map[string]interface{}) (*collectors.Payload, error) {
	path := collectors.StringParam(config, "path")
	if path == "" {
		return nil, fmt.Errorf("missing 'path' in collector config")
	}

	logger.Log.Debugf("Reading file: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return &collectors.Payload{Data: data, Source: path}, nil
}

func init() {
	collectors.Register("file", func() collectors.Collector {
		return &FileCollector{}
	})
}
