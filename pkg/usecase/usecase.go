package usecase

import (
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
)

// DefaultDashboardTopN is the number of ranked records on the dashboard
const DefaultDashboardTopN = 10

type UseCases struct {
	repo        interfaces.Repository
	suggester   interfaces.SuggestionProvider
	storage     interfaces.FileStorage
	notifier    interfaces.Notifier
	autoSuggest bool
	topN        int
	reportTitle string
	noAuthEmail string
	now         func() time.Time

	Risk      *RiskUseCase
	Area      *AreaUseCase
	Equipment *EquipmentUseCase
	User      *UserUseCase
	Report    *ReportUseCase
}

type Option func(*UseCases)

// WithSuggestionProvider enables AI suggestions. Without it the AI
// fields stay blank.
func WithSuggestionProvider(p interfaces.SuggestionProvider) Option {
	return func(uc *UseCases) {
		uc.suggester = p
	}
}

// WithAutoSuggest fills factors from the provider when a risk is created
// with default factors
func WithAutoSuggest(enabled bool) Option {
	return func(uc *UseCases) {
		uc.autoSuggest = enabled
	}
}

func WithFileStorage(s interfaces.FileStorage) Option {
	return func(uc *UseCases) {
		uc.storage = s
	}
}

func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func WithDashboardTopN(n int) Option {
	return func(uc *UseCases) {
		uc.topN = n
	}
}

func WithReportTitle(title string) Option {
	return func(uc *UseCases) {
		uc.reportTitle = title
	}
}

// WithNoAuth resolves every request to an admin with the given e-mail.
// For local development only.
func WithNoAuth(email string) Option {
	return func(uc *UseCases) {
		uc.noAuthEmail = email
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		topN: DefaultDashboardTopN,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Risk = &RiskUseCase{
		repo:        repo,
		suggester:   uc.suggester,
		storage:     uc.storage,
		notifier:    uc.notifier,
		autoSuggest: uc.autoSuggest,
		topN:        uc.topN,
	}
	uc.Area = &AreaUseCase{repo: repo}
	uc.Equipment = &EquipmentUseCase{repo: repo}
	uc.User = &UserUseCase{repo: repo, noAuthEmail: uc.noAuthEmail}
	uc.Report = &ReportUseCase{repo: repo, title: uc.reportTitle, now: uc.now}

	return uc
}

// IsNoAuthn reports whether authentication is bypassed
func (uc *UseCases) IsNoAuthn() bool {
	return uc.noAuthEmail != ""
}

// AISuggestionEnabled reports whether a suggestion provider is configured
func (uc *UseCases) AISuggestionEnabled() bool {
	return uc.suggester != nil
}

// AttachmentsEnabled reports whether file storage is configured
func (uc *UseCases) AttachmentsEnabled() bool {
	return uc.storage != nil
}
