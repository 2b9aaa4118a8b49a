package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestLogger_Configure(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("verbose", "console", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("writes json to file", func(t *testing.T) {
		original := logging.Default()
		t.Cleanup(func() { logging.SetDefault(original) })

		path := filepath.Join(t.TempDir(), "gutboard.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()

		logging.Default().Info("hello", "area", "Flare")
		closer()

		data, err := os.ReadFile(path)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains(`"msg":"hello"`)
		gt.String(t, string(data)).Contains(`"area":"Flare"`)
	})
}
