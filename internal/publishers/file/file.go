package file

import (
	"fmt"
	"os"
	"path/filepath"

	"akasha/internal/logger"
	"akasha/internal/proxy"
	"akasha/internal/publishers"
)

// Publisher writes the payload to the "path" param, replacing the file
// atomically.
type Publisher struct{}

func (p *Publisher) Publish(proxies []proxy.Proxy, config map[string]interface{}) error {
	path, _ := config["path"].(string)
	if path == "" {
		return fmt.Errorf("file publisher requires path")
	}

	payload, err := publishers.GenerateSubscriptionPayload(proxies, config)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".akasha-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.WriteString(payload + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Log.Debugf("File publisher wrote %d bytes to %s", len(payload)+1, path)
	return nil
}

func init() {
	publishers.Register("file", func() publishers.Publisher { return &Publisher{} })
}
