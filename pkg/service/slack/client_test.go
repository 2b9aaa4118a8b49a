package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/service/slack"
	"github.com/m-mizutani/gt"
)

type fakeSlack struct {
	*httptest.Server

	mu        sync.Mutex
	listCalls int
	posts     []map[string]string
}

func newFakeSlack(t *testing.T) *fakeSlack {
	t.Helper()
	f := &fakeSlack{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")

		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/conversations.list"):
			f.listCalls++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok": true,
				"channels": []map[string]any{
					{"id": "C001", "name": "geral", "is_member": false},
					{"id": "C002", "name": "manutencao", "is_member": true},
				},
				"response_metadata": map[string]string{"next_cursor": ""},
			})
		case strings.HasSuffix(r.URL.Path, "/chat.postMessage"):
			f.posts = append(f.posts, map[string]string{
				"channel": r.FormValue("channel"),
				"text":    r.FormValue("text"),
				"blocks":  r.FormValue("blocks"),
			})
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":      true,
				"channel": r.FormValue("channel"),
				"ts":      "1700000000.000100",
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unknown_method"})
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeSlack) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeSlack) Posts() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.posts...)
}

func criticalRisk(t *testing.T) *model.RiskRecord {
	t.Helper()
	risk := model.NewRiskRecord("Vazamento de biogás no gasômetro", "Detector acusou 20% LEL", "Gasômetro")
	gt.NoError(t, risk.SetFactors(5, 5, 4)).Required()
	risk.ReporterID = "operador@example.com"
	return risk
}

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C001")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})
}

func TestNotifyCritical(t *testing.T) {
	t.Run("posts to channel ID directly", func(t *testing.T) {
		fake := newFakeSlack(t)
		n, err := slack.New("xoxb-test", "C999",
			slack.WithAPIURL(fake.URL+"/"),
			slack.WithDashboardURL("https://painel.example.com/"),
		)
		gt.NoError(t, err).Required()

		risk := criticalRisk(t)
		gt.NoError(t, n.NotifyCritical(context.Background(), risk)).Required()

		gt.Value(t, fake.ListCalls()).Equal(0)
		posts := fake.Posts()
		gt.Array(t, posts).Length(1).Required()
		gt.Value(t, posts[0]["channel"]).Equal("C999")
		gt.String(t, posts[0]["text"]).Contains("GUT 100")
		gt.String(t, posts[0]["blocks"]).Contains("Emergência Crítica")
		gt.String(t, posts[0]["blocks"]).Contains("https://painel.example.com/risks/" + risk.ID.String())
	})

	t.Run("resolves #name once and caches it", func(t *testing.T) {
		fake := newFakeSlack(t)
		n, err := slack.New("xoxb-test", "#manutencao", slack.WithAPIURL(fake.URL+"/"))
		gt.NoError(t, err).Required()

		ctx := context.Background()
		gt.NoError(t, n.NotifyCritical(ctx, criticalRisk(t))).Required()
		gt.NoError(t, n.NotifyCritical(ctx, criticalRisk(t))).Required()

		gt.Value(t, fake.ListCalls()).Equal(1)
		posts := fake.Posts()
		gt.Array(t, posts).Length(2).Required()
		gt.Value(t, posts[1]["channel"]).Equal("C002")
	})

	t.Run("channel the bot has not joined", func(t *testing.T) {
		fake := newFakeSlack(t)
		n, err := slack.New("xoxb-test", "#geral", slack.WithAPIURL(fake.URL+"/"))
		gt.NoError(t, err).Required()

		err = n.NotifyCritical(context.Background(), criticalRisk(t))
		gt.Error(t, err).Is(slack.ErrChannelNotFound)
		gt.Array(t, fake.Posts()).Length(0)
	})
}

func TestBuildCriticalBlocks(t *testing.T) {
	risk := criticalRisk(t)

	withLink := slack.BuildCriticalBlocks(risk, "https://painel.example.com/risks/x")
	// header, fields, description, context
	gt.Array(t, withLink).Length(4)

	risk.Description = ""
	risk.ReporterID = ""
	gt.Array(t, slack.BuildCriticalBlocks(risk, "")).Length(2)
}

func TestTruncateRunes(t *testing.T) {
	gt.Value(t, slack.TruncateRunes("manutenção", 20)).Equal("manutenção")
	gt.Value(t, slack.TruncateRunes("manutenção", 6)).Equal("manut…")
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	if token == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN is not set")
	}
	channel := os.Getenv("TEST_SLACK_CHANNEL")
	if channel == "" {
		t.Skip("TEST_SLACK_CHANNEL is not set")
	}

	n, err := slack.New(token, channel)
	gt.NoError(t, err).Required()
	gt.NoError(t, n.NotifyCritical(context.Background(), criticalRisk(t)))
}
