package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/repository/memory"
)

type mockSuggester struct {
	suggestion *model.Suggestion
	evaluation *model.ResolutionEvaluation
	err        error
	calls      atomic.Int32
}

var _ interfaces.SuggestionProvider = &mockSuggester{}

func (m *mockSuggester) Suggest(ctx context.Context, title, description, area string) (*model.Suggestion, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.suggestion
	return &copied, nil
}

func (m *mockSuggester) EvaluateResolution(ctx context.Context, risk *model.RiskRecord, narrative string) (*model.ResolutionEvaluation, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.evaluation, nil
}

type mockNotifier struct {
	ch chan *model.RiskRecord
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{ch: make(chan *model.RiskRecord, 16)}
}

func (m *mockNotifier) NotifyCritical(ctx context.Context, risk *model.RiskRecord) error {
	m.ch <- risk
	return nil
}

// spyRepository counts calls that reach the risk store
type spyRepository struct {
	*memory.Memory
	risk *spyRiskRepository
}

type spyRiskRepository struct {
	interfaces.RiskRepository
	mu    sync.Mutex
	calls int
}

func newSpyRepository() *spyRepository {
	m := memory.New()
	return &spyRepository{Memory: m, risk: &spyRiskRepository{RiskRepository: m.Risk()}}
}

func (r *spyRepository) Risk() interfaces.RiskRepository {
	return r.risk
}

func (r *spyRiskRepository) count() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *spyRiskRepository) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *spyRiskRepository) Create(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	r.count()
	return r.RiskRepository.Create(ctx, risk)
}

func (r *spyRiskRepository) Get(ctx context.Context, id model.RiskID) (*model.RiskRecord, error) {
	r.count()
	return r.RiskRepository.Get(ctx, id)
}

func (r *spyRiskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	r.count()
	return r.RiskRepository.List(ctx)
}

func (r *spyRiskRepository) Update(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	r.count()
	return r.RiskRepository.Update(ctx, risk)
}

func (r *spyRiskRepository) Delete(ctx context.Context, id model.RiskID) error {
	r.count()
	return r.RiskRepository.Delete(ctx, id)
}

func withRole(ctx context.Context, role types.Role) context.Context {
	return model.ContextWithUser(ctx, &model.User{ID: string(role) + "@example.com", Role: role})
}
