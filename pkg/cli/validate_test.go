package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/cli"
	"github.com/biogas-ops/gutboard/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	configPath := writeFile(t, "gutboard.toml", `
report_title = "Riscos - Planta Norte"

[[area]]
name = "Biodigestor"

[[area]]
name = "Gasômetro"

[[user]]
email = "admin@plant.example"
role = "admin"
`)

	err := cli.Run(context.Background(), []string{"gutboard", "validate", "--config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, "gutboard.toml", `
[[user]]
email = "operator@plant.example"
role = "supervisor"
`)

	err := cli.Run(context.Background(), []string{"gutboard", "validate", "--config", configPath}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"gutboard", "validate", "--config", configPath}, "test")
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestRun_ValidateCommand_NoConfigFlag(t *testing.T) {
	err := cli.Run(context.Background(), []string{"gutboard", "validate"}, "test")
	gt.Error(t, err).Is(config.ErrMissingFlag)
}

func TestRun_ValidateCommand_DuplicateArea(t *testing.T) {
	configPath := writeFile(t, "gutboard.toml", `
[[area]]
name = "Flare"

[[area]]
name = "flare"
`)

	err := cli.Run(context.Background(), []string{"gutboard", "validate", "--config", configPath}, "test")
	gt.Error(t, err).Is(config.ErrDuplicateArea)
}
