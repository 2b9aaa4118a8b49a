package model

import (
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// RiskID is the opaque identifier of a risk record
type RiskID string

// NewRiskID generates a new time-ordered RiskID
func NewRiskID() RiskID {
	return RiskID(uuid.Must(uuid.NewV7()).String())
}

func (id RiskID) String() string {
	return string(id)
}

// Attachment is a file stored in the external file storage
type Attachment struct {
	URL        string
	Name       string
	Category   string
	UploadedAt time.Time
}

// RiskRecord is one reported plant issue scored with the GUT matrix.
// Score always equals Gravity * Urgency * Tendency; use SetFactors to
// change the factors.
type RiskRecord struct {
	ID                   RiskID
	Title                string
	Description          string
	Area                 string
	Gravity              int
	Urgency              int
	Tendency             int
	Score                int
	Status               types.RiskStatus
	ImmediateAction      string
	AIReasoning          string
	Resolution           string
	ResolutionEvaluation string
	ReporterID           string
	Attachments          []Attachment
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewRiskRecord returns a record with the creation defaults: all
// factors 1, status OPEN.
func NewRiskRecord(title, description, area string) *RiskRecord {
	return &RiskRecord{
		ID:          NewRiskID(),
		Title:       title,
		Description: description,
		Area:        area,
		Gravity:     MinFactor,
		Urgency:     MinFactor,
		Tendency:    MinFactor,
		Score:       MinFactor * MinFactor * MinFactor,
		Status:      types.RiskStatusOpen,
	}
}

// SetFactors replaces the three GUT factors and recomputes the score.
// On error the record is left untouched.
func (r *RiskRecord) SetFactors(gravity, urgency, tendency int) error {
	score, err := ComputeScore(gravity, urgency, tendency)
	if err != nil {
		return err
	}
	r.Gravity = gravity
	r.Urgency = urgency
	r.Tendency = tendency
	r.Score = score
	return nil
}

// RowLevel is the table colour bucket of the record
func (r *RiskRecord) RowLevel() types.RowLevel {
	return ClassifyRow(r.Score)
}

// Priority is the detail banner label of the record
func (r *RiskRecord) Priority() types.Priority {
	return ClassifyPriority(r.Score)
}

// Validate checks required fields and the score invariant
func (r *RiskRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return goerr.Wrap(ErrValidation, "risk title is required", goerr.V(RiskIDKey, r.ID))
	}
	score, err := ComputeScore(r.Gravity, r.Urgency, r.Tendency)
	if err != nil {
		return goerr.Wrap(err, "invalid risk factors", goerr.V(RiskIDKey, r.ID))
	}
	if score != r.Score {
		return goerr.Wrap(ErrValidation, "risk score does not match its factors",
			goerr.V(RiskIDKey, r.ID),
			goerr.V("score", r.Score),
			goerr.V("expected", score),
		)
	}
	if !r.Status.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid risk status",
			goerr.V(RiskIDKey, r.ID),
			goerr.V("status", r.Status),
		)
	}
	return nil
}

// Copy returns a deep copy of the record
func (r *RiskRecord) Copy() *RiskRecord {
	copied := *r
	if r.Attachments != nil {
		copied.Attachments = make([]Attachment, len(r.Attachments))
		copy(copied.Attachments, r.Attachments)
	}
	return &copied
}
