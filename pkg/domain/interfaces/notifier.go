package interfaces

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

// Notifier announces risks that need immediate attention
type Notifier interface {
	NotifyCritical(ctx context.Context, risk *model.RiskRecord) error
}
