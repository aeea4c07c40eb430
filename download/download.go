// Package download waits for files saved by the browser under test.
package download

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/stepcheck/retry"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 5 * time.Second

type Config struct {
	// Dir is the directory the browser saves downloads into.
	Dir   string
	Retry retry.Settings
}

func DefaultConfig() Config {
	return Config{
		Retry: retry.Settings{
			Timeout:  DefaultTimeout,
			Interval: retry.DefaultInterval,
		},
	}
}

func (c Config) Verify() error {
	if c.Dir == "" {
		return errors.New("a download directory must be configured to wait for downloaded files")
	}
	return c.Retry.Verify()
}

// WaitForFile waits until filename exists as a regular file inside the
// download directory and returns its full path.
func WaitForFile(
	ctx context.Context, cfg Config, filename string, logger zerolog.Logger, opts ...retry.DoOpt,
) (string, error) {
	if err := cfg.Verify(); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.Dir, filename)
	logger.Debug().Str("path", path).Dur("timeout", cfg.Retry.Timeout).Msgf("waiting for download")
	opts = append([]retry.DoOpt{retry.WithLogger(logger)}, opts...)
	if err := retry.Do(ctx, cfg.Retry, func() error {
		fi, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return retry.Assertf("file %s has not been downloaded", path)
			}
			return errors.Wrapf(err, "error checking for %s", path)
		}
		if !fi.Mode().IsRegular() {
			return retry.Assertf("%s is not a regular file", path)
		}
		return nil
	}, opts...); err != nil {
		return "", err
	}
	logger.Debug().Str("path", path).Msgf("download found")
	return path, nil
}
