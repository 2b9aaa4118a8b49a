package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection and field names used by the risk repository and by the
// index migration.
const (
	RiskCollection     = "risks"
	RiskFieldScore     = "score"
	RiskFieldCreatedAt = "created_at"
)

type attachmentDocument struct {
	URL        string    `firestore:"url"`
	Name       string    `firestore:"name"`
	Category   string    `firestore:"category"`
	UploadedAt time.Time `firestore:"uploaded_at"`
}

type riskDocument struct {
	ID                   string               `firestore:"id"`
	Title                string               `firestore:"title"`
	Description          string               `firestore:"description"`
	Area                 string               `firestore:"area"`
	Gravity              int                  `firestore:"gravity"`
	Urgency              int                  `firestore:"urgency"`
	Tendency             int                  `firestore:"tendency"`
	Score                int                  `firestore:"score"`
	Status               string               `firestore:"status"`
	ImmediateAction      string               `firestore:"immediate_action"`
	AIReasoning          string               `firestore:"ai_reasoning"`
	Resolution           string               `firestore:"resolution"`
	ResolutionEvaluation string               `firestore:"resolution_evaluation"`
	ReporterID           string               `firestore:"reporter_id"`
	Attachments          []attachmentDocument `firestore:"attachments"`
	CreatedAt            time.Time            `firestore:"created_at"`
	UpdatedAt            time.Time            `firestore:"updated_at"`
}

func riskToStorage(r *model.RiskRecord) *riskDocument {
	doc := &riskDocument{
		ID:                   r.ID.String(),
		Title:                r.Title,
		Description:          r.Description,
		Area:                 r.Area,
		Gravity:              r.Gravity,
		Urgency:              r.Urgency,
		Tendency:             r.Tendency,
		Score:                r.Score,
		Status:               r.Status.String(),
		ImmediateAction:      r.ImmediateAction,
		AIReasoning:          r.AIReasoning,
		Resolution:           r.Resolution,
		ResolutionEvaluation: r.ResolutionEvaluation,
		ReporterID:           r.ReporterID,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	for _, a := range r.Attachments {
		doc.Attachments = append(doc.Attachments, attachmentDocument{
			URL:        a.URL,
			Name:       a.Name,
			Category:   a.Category,
			UploadedAt: a.UploadedAt,
		})
	}
	return doc
}

func riskFromStorage(doc *riskDocument) *model.RiskRecord {
	r := &model.RiskRecord{
		ID:                   model.RiskID(doc.ID),
		Title:                doc.Title,
		Description:          doc.Description,
		Area:                 doc.Area,
		Gravity:              doc.Gravity,
		Urgency:              doc.Urgency,
		Tendency:             doc.Tendency,
		Score:                doc.Score,
		Status:               types.RiskStatus(doc.Status).Normalize(),
		ImmediateAction:      doc.ImmediateAction,
		AIReasoning:          doc.AIReasoning,
		Resolution:           doc.Resolution,
		ResolutionEvaluation: doc.ResolutionEvaluation,
		ReporterID:           doc.ReporterID,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
	for _, a := range doc.Attachments {
		r.Attachments = append(r.Attachments, model.Attachment{
			URL:        a.URL,
			Name:       a.Name,
			Category:   a.Category,
			UploadedAt: a.UploadedAt,
		})
	}
	return r
}

type riskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newRiskRepository(client *firestore.Client) *riskRepository {
	return &riskRepository{
		client: client,
	}
}

func (r *riskRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, RiskCollection))
}

func (r *riskRepository) Create(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	created := risk.Copy()
	if created.ID == "" {
		created.ID = model.NewRiskID()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	if _, err := r.collection().Doc(created.ID.String()).Create(ctx, riskToStorage(created)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrConflict, "risk already exists", goerr.V(model.RiskIDKey, created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V(model.RiskIDKey, created.ID))
	}

	return created, nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.RiskRecord, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode risk", goerr.V(model.RiskIDKey, id))
	}

	return riskFromStorage(&doc), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	iter := r.collection().
		OrderBy(RiskFieldScore, firestore.Desc).
		OrderBy(RiskFieldCreatedAt, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var risks []*model.RiskRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var doc riskDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode risk", goerr.V("doc_id", snap.Ref.ID))
		}
		risks = append(risks, riskFromStorage(&doc))
	}

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	docRef := r.collection().Doc(risk.ID.String())

	var updated *model.RiskRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
			}
			return goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		var existing riskDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		updated = risk.Copy()
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		return tx.Set(docRef, riskToStorage(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(model.RiskIDKey, risk.ID))
	}

	return updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	docRef := r.collection().Doc(id.String())
	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}

	return nil
}
