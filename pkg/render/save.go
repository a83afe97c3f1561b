package render

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/barnsley/pkg/errors"
)

// Save writes an artifact to path, creating parent directories as needed.
// Any failure is reported with the IO_ERROR code; an invalid path is reported
// as INVALID_PATH.
func Save(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
