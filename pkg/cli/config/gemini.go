package config

import (
	"context"
	"log/slog"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/service/suggestion"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Gemini LLM client
type Gemini struct {
	projectID   string
	location    string
	language    string
	autoSuggest bool
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "AI",
			Sources:     cli.EnvVars("GUTBOARD_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "AI",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GUTBOARD_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "ai-language",
			Usage:       "Language of AI reasoning text",
			Category:    "AI",
			Value:       suggestion.DefaultLanguage,
			Sources:     cli.EnvVars("GUTBOARD_AI_LANGUAGE"),
			Destination: &g.language,
		},
		&cli.BoolFlag{
			Name:        "ai-auto-suggest",
			Usage:       "Fill GUT factors from the AI when a risk is created without them",
			Category:    "AI",
			Sources:     cli.EnvVars("GUTBOARD_AI_AUTO_SUGGEST"),
			Destination: &g.autoSuggest,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("language", g.language),
		slog.Bool("auto_suggest", g.autoSuggest),
	}
}

// AutoSuggest reports whether new unscored risks get AI factors
func (g *Gemini) AutoSuggest() bool {
	return g.autoSuggest
}

// Configure creates a new Gemini LLM client from the configured flags.
// Returns nil if projectID is not configured (AI features will be disabled).
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}

// ConfigureSuggestion returns the suggestion provider, or nil when
// Gemini is not configured
func (g *Gemini) ConfigureSuggestion(ctx context.Context) (interfaces.SuggestionProvider, error) {
	client, err := g.Configure(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	provider, err := suggestion.New(client, suggestion.WithLanguage(g.language))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create suggestion provider")
	}
	return provider, nil
}
