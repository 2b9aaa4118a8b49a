package gauth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/biogas-ops/gutboard/pkg/utils/safe"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	// GrantType is the OAuth2 JWT-bearer grant (RFC 7523)
	GrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// DefaultScope grants access to files created by the service account
	DefaultScope = "https://www.googleapis.com/auth/drive.file"

	// DefaultExpiryMargin is subtracted from the token expiry before reuse
	DefaultExpiryMargin = 60 * time.Second

	assertionLifetime = time.Hour
	maxErrorBody      = 4096
)

var (
	ErrAuthentication     = goerr.New("token exchange failed")
	ErrInvalidCredentials = goerr.New("invalid service account credentials")
)

// CachedToken is an access token and its absolute expiry
type CachedToken struct {
	AccessToken string `masq:"secret"`
	TokenType   string
	ExpiresAt   time.Time
}

// Usable reports whether the token can still be handed out at now
func (t *CachedToken) Usable(now time.Time, margin time.Duration) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt.Add(-margin))
}

type tokenResponse struct {
	AccessToken string `json:"access_token" masq:"secret"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Client exchanges a signed service-account assertion for an access
// token and caches it until shortly before it expires. It is safe for
// concurrent use; concurrent refreshes share one exchange.
type Client struct {
	account    *ServiceAccount
	key        jwk.Key
	scopes     []string
	httpClient *http.Client
	now        func() time.Time
	margin     time.Duration

	mu     sync.Mutex
	cached *CachedToken
	group  singleflight.Group
}

var _ oauth2.TokenSource = &Client{}

type Option func(*Client)

func WithScopes(scopes ...string) Option {
	return func(c *Client) {
		c.scopes = scopes
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func WithExpiryMargin(margin time.Duration) Option {
	return func(c *Client) {
		c.margin = margin
	}
}

// New parses the private key of account. A key that cannot be parsed is
// returned as ErrInvalidCredentials.
func New(account *ServiceAccount, opts ...Option) (*Client, error) {
	if account == nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "service account is required")
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	key, err := jwk.ParseKey([]byte(account.PrivateKey), jwk.WithPEM(true))
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidCredentials, "failed to parse private key",
			goerr.V("client_email", account.ClientEmail),
			goerr.V("cause", err.Error()),
		)
	}
	if account.PrivateKeyID != "" {
		if err := key.Set(jwk.KeyIDKey, account.PrivateKeyID); err != nil {
			return nil, goerr.Wrap(err, "failed to set key ID")
		}
	}

	c := &Client{
		account:    account,
		key:        key,
		scopes:     []string{DefaultScope},
		httpClient: http.DefaultClient,
		now:        time.Now,
		margin:     DefaultExpiryMargin,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ClientEmail is the identity the tokens are issued for
func (c *Client) ClientEmail() string {
	return c.account.ClientEmail
}

// AccessToken returns a valid access token, exchanging a new assertion
// when the cached one is missing or within the expiry margin.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	token, err := c.Current(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Current returns the current token with its expiry, refreshing it
// when needed. Concurrent callers share one exchange; each caller stops
// waiting when its own ctx is done, while the exchange itself runs to
// completion for the others.
func (c *Client) Current(ctx context.Context) (*CachedToken, error) {
	if token := c.lookup(); token != nil {
		return token, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		// another caller may have refreshed while we waited for the group
		if token := c.lookup(); token != nil {
			return token, nil
		}

		token, err := c.exchange(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = token
		c.mu.Unlock()

		copied := *token
		return &copied, nil
	})

	select {
	case <-ctx.Done():
		return nil, goerr.Wrap(ctx.Err(), "cancelled while waiting for token refresh",
			goerr.V("client_email", c.account.ClientEmail))

	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logging.From(ctx).Debug("shared token refresh", slog.String("client_email", c.account.ClientEmail))
		}
		token := *res.Val.(*CachedToken)
		return &token, nil
	}
}

// Token implements oauth2.TokenSource
func (c *Client) Token() (*oauth2.Token, error) {
	token, err := c.Current(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiry:      token.ExpiresAt,
	}, nil
}

// Invalidate drops the cached token so the next call exchanges again
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
}

func (c *Client) lookup() *CachedToken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cached.Usable(c.now(), c.margin) {
		return nil
	}
	copied := *c.cached
	return &copied
}

func (c *Client) assertion(issuedAt time.Time) (string, error) {
	tok, err := jwt.NewBuilder().
		Issuer(c.account.ClientEmail).
		Audience([]string{c.account.TokenURI}).
		IssuedAt(issuedAt).
		Expiration(issuedAt.Add(assertionLifetime)).
		Claim("scope", strings.Join(c.scopes, " ")).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build assertion")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, c.key))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign assertion", goerr.V("client_email", c.account.ClientEmail))
	}
	return string(signed), nil
}

func (c *Client) exchange(ctx context.Context) (*CachedToken, error) {
	now := c.now()

	assertion, err := c.assertion(now)
	if err != nil {
		return nil, err
	}

	data := url.Values{}
	data.Set("grant_type", GrantType)
	data.Set("assertion", assertion)

	encodedData := data.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.account.TokenURI, strings.NewReader(encodedData))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create token request", goerr.V("token_uri", c.account.TokenURI))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ContentLength = int64(len(encodedData))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send token request", goerr.V("token_uri", c.account.TokenURI))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, goerr.Wrap(ErrAuthentication, "token endpoint rejected assertion",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
			goerr.V("client_email", c.account.ClientEmail),
		)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, goerr.Wrap(ErrAuthentication, "failed to parse token response", goerr.V("cause", err.Error()))
	}
	if tokenResp.AccessToken == "" {
		return nil, goerr.Wrap(ErrAuthentication, "token response has no access_token")
	}

	if tokenResp.ExpiresIn <= 0 {
		return nil, goerr.Wrap(ErrAuthentication, "token response has no positive expires_in",
			goerr.V("expires_in", tokenResp.ExpiresIn),
			goerr.V("client_email", c.account.ClientEmail),
		)
	}
	lifetime := time.Duration(tokenResp.ExpiresIn) * time.Second
	if lifetime <= c.margin {
		logging.From(ctx).Warn("token lifetime is within the expiry margin, it will not be reused",
			slog.String("client_email", c.account.ClientEmail),
			slog.Int64("expires_in", tokenResp.ExpiresIn),
			slog.Duration("margin", c.margin),
		)
	}

	tokenType := tokenResp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	logging.From(ctx).Info("obtained access token",
		slog.String("client_email", c.account.ClientEmail),
		slog.Int64("expires_in", tokenResp.ExpiresIn),
	)

	return &CachedToken{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenType,
		ExpiresAt:   now.Add(lifetime),
	}, nil
}
