package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = goerr.New("empty LLM response")

// DefaultLanguage of the generated reasoning
const DefaultLanguage = "Portuguese"

// Client implements interfaces.SuggestionProvider on top of a gollem LLM client
type Client struct {
	llmClient gollem.LLMClient
	language  string
}

var _ interfaces.SuggestionProvider = &Client{}

type Option func(*Client)

// WithLanguage sets the language of the generated reasoning, e.g. "Portuguese"
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &Client{
		llmClient: llmClient,
		language:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.language == "" {
		c.language = DefaultLanguage
	}
	return c, nil
}

type suggestResponse struct {
	Gravity   int    `json:"gravity"`
	Urgency   int    `json:"urgency"`
	Tendency  int    `json:"tendency"`
	Reasoning string `json:"reasoning"`
}

type evaluationResponse struct {
	Effective  bool   `json:"effective"`
	Assessment string `json:"assessment"`
}

// Suggest asks the model for GUT factors. Factors outside [1,5] are
// discarded and the suggestion is returned with only its reasoning.
func (c *Client) Suggest(ctx context.Context, title, description, area string) (*model.Suggestion, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Risk report\n\n**Title:** %s\n", title)
	if area != "" {
		fmt.Fprintf(&sb, "**Plant area:** %s\n", area)
	}
	if description != "" {
		fmt.Fprintf(&sb, "**Description:**\n%s\n", description)
	}

	var resp suggestResponse
	if err := c.generate(ctx, c.suggestSystemPrompt(), sb.String(), suggestSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to suggest GUT factors", goerr.V("title", title))
	}

	s := &model.Suggestion{
		Gravity:   resp.Gravity,
		Urgency:   resp.Urgency,
		Tendency:  resp.Tendency,
		Reasoning: strings.TrimSpace(resp.Reasoning),
	}
	if !s.Valid() {
		logging.From(ctx).Warn("discarding out-of-range suggestion",
			slog.Int("gravity", resp.Gravity),
			slog.Int("urgency", resp.Urgency),
			slog.Int("tendency", resp.Tendency),
		)
		s.Gravity, s.Urgency, s.Tendency = 0, 0, 0
	}
	return s, nil
}

// EvaluateResolution asks whether narrative plausibly resolves risk
func (c *Client) EvaluateResolution(ctx context.Context, risk *model.RiskRecord, narrative string) (*model.ResolutionEvaluation, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Original issue\n\n**Title:** %s\n**Plant area:** %s\n", risk.Title, risk.Area)
	fmt.Fprintf(&sb, "**GUT:** G=%d U=%d T=%d (score %d)\n", risk.Gravity, risk.Urgency, risk.Tendency, risk.Score)
	if risk.Description != "" {
		fmt.Fprintf(&sb, "**Description:**\n%s\n", risk.Description)
	}
	if risk.ImmediateAction != "" {
		fmt.Fprintf(&sb, "**Immediate action taken:** %s\n", risk.ImmediateAction)
	}
	fmt.Fprintf(&sb, "\n## Resolution narrative\n\n%s\n", narrative)

	var resp evaluationResponse
	if err := c.generate(ctx, c.evaluateSystemPrompt(), sb.String(), evaluationSchema(), &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate resolution", goerr.V(model.RiskIDKey, risk.ID))
	}

	return &model.ResolutionEvaluation{
		Effective:  resp.Effective,
		Assessment: strings.TrimSpace(resp.Assessment),
	}, nil
}

func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter, out any) error {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(userPrompt)})
	if err != nil {
		return goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return goerr.Wrap(ErrEmptyResponse, "no text in LLM response")
	}

	if err := json.Unmarshal([]byte(resp.Texts[0]), out); err != nil {
		return goerr.Wrap(err, "failed to parse LLM response", goerr.V("response", resp.Texts[0]))
	}
	return nil
}

func (c *Client) suggestSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a maintenance reliability engineer at a biomethane plant (digesters, gas upgrading, compressors, flares).\n")
	sb.WriteString("Score the reported risk with the GUT matrix.\n\n")
	sb.WriteString("## Scale (integers 1 to 5):\n\n")
	sb.WriteString("- gravity: 1 no damage, 3 production loss or equipment damage, 5 injury, gas release or environmental damage\n")
	sb.WriteString("- urgency: 1 can wait, 3 act within days, 5 act immediately\n")
	sb.WriteString("- tendency: 1 stable, 3 worsens slowly, 5 worsens rapidly if nothing is done\n\n")
	fmt.Fprintf(&sb, "Write the reasoning in %s, at most three sentences.\n", c.language)
	return sb.String()
}

func (c *Client) evaluateSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a maintenance reliability engineer at a biomethane plant.\n")
	sb.WriteString("Decide whether the resolution narrative addresses the root cause of the original issue.\n")
	sb.WriteString("Set effective to false when the narrative only treats symptoms or is too vague to verify.\n")
	fmt.Fprintf(&sb, "Write the assessment in %s, at most three sentences.\n", c.language)
	return sb.String()
}

func suggestSchema() *gollem.Parameter {
	factor := func(desc string) *gollem.Parameter {
		return &gollem.Parameter{
			Type:        gollem.TypeInteger,
			Description: desc,
			Required:    true,
		}
	}
	return &gollem.Parameter{
		Title:       "GUTSuggestion",
		Description: "GUT matrix factors for a plant risk",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"gravity":  factor("Gravity, 1 to 5"),
			"urgency":  factor("Urgency, 1 to 5"),
			"tendency": factor("Tendency, 1 to 5"),
			"reasoning": {
				Type:        gollem.TypeString,
				Description: "Short justification of the three factors",
				Required:    true,
			},
		},
	}
}

func evaluationSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ResolutionEvaluation",
		Description: "Verdict on a risk resolution narrative",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"effective": {
				Type:        gollem.TypeBoolean,
				Description: "True when the narrative resolves the root cause",
				Required:    true,
			},
			"assessment": {
				Type:        gollem.TypeString,
				Description: "Short explanation of the verdict",
				Required:    true,
			},
		},
	}
}
