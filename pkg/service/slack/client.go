package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const (
	// DefaultCacheTTL is the default TTL for the channel name lookup
	DefaultCacheTTL = 10 * time.Minute
)

var ErrChannelNotFound = goerr.New("bot is not a member of the channel")

// Notifier posts critical risks to a Slack channel
type Notifier struct {
	api          *slack.Client
	channel      string
	dashboardURL string
	cacheTTL     time.Duration

	mu              sync.Mutex
	channelID       string
	channelExpireAt time.Time
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*notifierConfig)

type notifierConfig struct {
	apiURL       string
	dashboardURL string
	cacheTTL     time.Duration
}

// WithAPIURL points the client at another Slack API endpoint, for tests
func WithAPIURL(url string) Option {
	return func(c *notifierConfig) {
		c.apiURL = url
	}
}

// WithDashboardURL adds a link to the risk detail page in messages
func WithDashboardURL(url string) Option {
	return func(c *notifierConfig) {
		c.dashboardURL = strings.TrimRight(url, "/")
	}
}

// WithCacheTTL sets how long a resolved channel name is reused
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *notifierConfig) {
		c.cacheTTL = ttl
	}
}

// New creates a Notifier. channel is either a channel ID (C0123...) or
// "#name" of a channel the bot has joined.
func New(token, channel string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	cfg := &notifierConfig{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	var slackOpts []slack.Option
	if cfg.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:          slack.New(token, slackOpts...),
		channel:      channel,
		dashboardURL: cfg.dashboardURL,
		cacheTTL:     cfg.cacheTTL,
	}, nil
}

// NotifyCritical posts a Block Kit message describing risk
func (n *Notifier) NotifyCritical(ctx context.Context, risk *model.RiskRecord) error {
	channelID, err := n.resolveChannel(ctx)
	if err != nil {
		return err
	}

	blocks := BuildCriticalBlocks(risk, n.riskURL(risk.ID))
	fallback := fmt.Sprintf("Risco crítico (GUT %d): %s", risk.Score, risk.Title)

	_, ts, err := n.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post critical risk message",
			goerr.V(model.RiskIDKey, risk.ID),
			goerr.V("channel", n.channel),
		)
	}

	logging.From(ctx).Info("posted critical risk to Slack",
		slog.String("risk_id", risk.ID.String()),
		slog.String("channel", channelID),
		slog.String("ts", ts),
	)
	return nil
}

func (n *Notifier) riskURL(id model.RiskID) string {
	if n.dashboardURL == "" {
		return ""
	}
	return n.dashboardURL + "/risks/" + id.String()
}

func (n *Notifier) resolveChannel(ctx context.Context) (string, error) {
	name, isName := strings.CutPrefix(n.channel, "#")
	if !isName {
		return n.channel, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.channelID != "" && time.Now().Before(n.channelExpireAt) {
		return n.channelID, nil
	}

	channels, err := n.listJoinedChannels(ctx)
	if err != nil {
		return "", err
	}
	for _, ch := range channels {
		if ch.Name == name {
			n.channelID = ch.ID
			n.channelExpireAt = time.Now().Add(n.cacheTTL)
			return ch.ID, nil
		}
	}

	return "", goerr.Wrap(ErrChannelNotFound, "channel not found", goerr.V("channel", n.channel))
}

// listJoinedChannels retrieves the public channels the bot has joined
func (n *Notifier) listJoinedChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	var cursor string

	for {
		params := &slack.GetConversationsParameters{
			Types:           []string{"public_channel"},
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		}

		convs, nextCursor, err := n.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversations")
		}

		for _, conv := range convs {
			if conv.IsMember {
				channels = append(channels, Channel{
					ID:   conv.ID,
					Name: conv.Name,
				})
			}
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return channels, nil
}
