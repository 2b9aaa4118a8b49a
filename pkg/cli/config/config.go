package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	ReportTitle   string `toml:"report_title"`
	DashboardTopN int    `toml:"dashboard_top_n"`
	Areas         []Area `toml:"area"`
	Users         []User `toml:"user"`

	path string
}

// Area is a plant area created on startup when missing
type Area struct {
	Name string `toml:"name"`
}

// User is a dashboard user created on startup when missing
type User struct {
	Email string `toml:"email"`
	Name  string `toml:"name"`
	Role  string `toml:"role"`
}

// Validate checks if the User is valid
func (u *User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return goerr.Wrap(ErrInvalidConfig, "user email is invalid", goerr.V(UserKey, u.Email))
	}
	if _, err := types.ParseRole(strings.ToUpper(u.Role)); err != nil {
		return goerr.Wrap(ErrInvalidConfig, "user role is invalid", goerr.V(UserKey, u.Email), goerr.V("role", u.Role))
	}
	return nil
}

// Flags returns CLI flags for the configuration file
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file",
			Sources:     cli.EnvVars("GUTBOARD_CONFIG"),
			Destination: &a.path,
		},
	}
}

func (a AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", a.path),
		slog.Int("areas", len(a.Areas)),
		slog.Int("users", len(a.Users)),
	)
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.DashboardTopN < 0 {
		return goerr.Wrap(ErrInvalidConfig, "dashboard_top_n must not be negative", goerr.V("value", a.DashboardTopN))
	}

	areaNames := make(map[string]bool)
	for i, area := range a.Areas {
		name := strings.TrimSpace(area.Name)
		if name == "" {
			return goerr.Wrap(ErrMissingName, "area name is required", goerr.V(IndexKey, i))
		}
		key := strings.ToLower(name)
		if areaNames[key] {
			return goerr.Wrap(ErrDuplicateArea, "duplicate area name", goerr.V(AreaKey, name))
		}
		areaNames[key] = true
	}

	emails := make(map[string]bool)
	for _, user := range a.Users {
		if err := user.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(user.Email)
		if emails[key] {
			return goerr.Wrap(ErrDuplicateUser, "duplicate user", goerr.V(UserKey, user.Email))
		}
		emails[key] = true
	}

	return nil
}

// AreaNames returns the seed area names
func (a *AppConfig) AreaNames() []string {
	names := make([]string, len(a.Areas))
	for i, area := range a.Areas {
		names[i] = strings.TrimSpace(area.Name)
	}
	return names
}

// SeedUsers converts the configured users to domain users
func (a *AppConfig) SeedUsers() []*model.User {
	users := make([]*model.User, len(a.Users))
	for i, u := range a.Users {
		users[i] = &model.User{
			ID:   strings.ToLower(strings.TrimSpace(u.Email)),
			Name: u.Name,
			Role: types.Role(strings.ToUpper(u.Role)),
		}
	}
	return users
}

// Configure loads the file given by --config. Without the flag an empty
// configuration is used.
func (a *AppConfig) Configure() error {
	if a.path == "" {
		return nil
	}

	loaded, err := LoadAppConfiguration(a.path)
	if err != nil {
		return err
	}
	path := a.path
	*a = *loaded
	a.path = path
	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}
