package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

const defaultConfigYaml = `semaphore:
  options: "create|read|write"
  mode: "0600"
  initial: 0
logging:
  level: "info"
  output: ""
`

// GetConfigReader opens path, falling back to the built-in defaults when
// the file does not exist.
func GetConfigReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return io.NopCloser(strings.NewReader(defaultConfigYaml)), nil
}
