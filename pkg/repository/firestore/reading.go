package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// Readings live in a subcollection of their equipment document
const ReadingCollection = "readings"

type readingDocument struct {
	ID          string    `firestore:"id"`
	EquipmentID string    `firestore:"equipment_id"`
	Kind        string    `firestore:"kind"`
	Value       float64   `firestore:"value"`
	Ambient     float64   `firestore:"ambient"`
	TakenAt     time.Time `firestore:"taken_at"`
	Note        string    `firestore:"note"`
}

func readingToStorage(r *model.Reading) *readingDocument {
	return &readingDocument{
		ID:          string(r.ID),
		EquipmentID: r.EquipmentID.String(),
		Kind:        r.Kind.String(),
		Value:       r.Value,
		Ambient:     r.Ambient,
		TakenAt:     r.TakenAt,
		Note:        r.Note,
	}
}

func readingFromStorage(doc *readingDocument) *model.Reading {
	return &model.Reading{
		ID:          model.ReadingID(doc.ID),
		EquipmentID: model.EquipmentID(doc.EquipmentID),
		Kind:        types.ReadingKind(doc.Kind),
		Value:       doc.Value,
		Ambient:     doc.Ambient,
		TakenAt:     doc.TakenAt,
		Note:        doc.Note,
	}
}

type readingRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReadingRepository(client *firestore.Client) *readingRepository {
	return &readingRepository{client: client}
}

func (r *readingRepository) collection(equipmentID model.EquipmentID) *firestore.CollectionRef {
	return r.client.
		Collection(CollectionName(r.collectionPrefix, EquipmentCollection)).
		Doc(equipmentID.String()).
		Collection(ReadingCollection)
}

func (r *readingRepository) Create(ctx context.Context, reading *model.Reading) (*model.Reading, error) {
	created := *reading
	if created.ID == "" {
		created.ID = model.NewReadingID()
	}
	if created.TakenAt.IsZero() {
		created.TakenAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	if _, err := r.collection(created.EquipmentID).Doc(string(created.ID)).Set(ctx, readingToStorage(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create reading", goerr.V(model.EquipmentIDKey, created.EquipmentID))
	}
	return &created, nil
}

func (r *readingRepository) ListByEquipment(ctx context.Context, equipmentID model.EquipmentID, limit int) ([]*model.Reading, error) {
	query := r.collection(equipmentID).OrderBy("taken_at", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Reading
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate readings", goerr.V(model.EquipmentIDKey, equipmentID))
		}

		var doc readingDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode reading", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, readingFromStorage(&doc))
	}
	return result, nil
}

func (r *readingRepository) DeleteByEquipment(ctx context.Context, equipmentID model.EquipmentID) error {
	refs, err := r.collection(equipmentID).DocumentRefs(ctx).GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list readings", goerr.V(model.EquipmentIDKey, equipmentID))
	}
	if len(refs) == 0 {
		return nil
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue reading deletion", goerr.V("doc_id", ref.ID))
		}
	}
	bw.End()

	return nil
}
