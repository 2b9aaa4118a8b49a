package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const EquipmentCollection = "equipment"

type equipmentDocument struct {
	ID        string    `firestore:"id"`
	Tag       string    `firestore:"tag"`
	Name      string    `firestore:"name"`
	Area      string    `firestore:"area"`
	Kind      string    `firestore:"kind"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func equipmentToStorage(e *model.Equipment) *equipmentDocument {
	return &equipmentDocument{
		ID:        e.ID.String(),
		Tag:       e.Tag,
		Name:      e.Name,
		Area:      e.Area,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func equipmentFromStorage(doc *equipmentDocument) *model.Equipment {
	return &model.Equipment{
		ID:        model.EquipmentID(doc.ID),
		Tag:       doc.Tag,
		Name:      doc.Name,
		Area:      doc.Area,
		Kind:      doc.Kind,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type equipmentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newEquipmentRepository(client *firestore.Client) *equipmentRepository {
	return &equipmentRepository{client: client}
}

func (r *equipmentRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, EquipmentCollection))
}

func (r *equipmentRepository) Create(ctx context.Context, eq *model.Equipment) (*model.Equipment, error) {
	created := *eq
	if created.ID == "" {
		created.ID = model.NewEquipmentID()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection().Doc(created.ID.String()).Set(ctx, equipmentToStorage(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create equipment", goerr.V(model.EquipmentIDKey, created.ID))
	}
	return &created, nil
}

func (r *equipmentRepository) Get(ctx context.Context, id model.EquipmentID) (*model.Equipment, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "equipment not found", goerr.V(model.EquipmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get equipment", goerr.V(model.EquipmentIDKey, id))
	}

	var doc equipmentDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode equipment", goerr.V(model.EquipmentIDKey, id))
	}
	return equipmentFromStorage(&doc), nil
}

func (r *equipmentRepository) List(ctx context.Context) ([]*model.Equipment, error) {
	iter := r.collection().OrderBy("tag", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []*model.Equipment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate equipment")
		}

		var doc equipmentDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode equipment", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, equipmentFromStorage(&doc))
	}
	return result, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id model.EquipmentID) error {
	docRef := r.collection().Doc(id.String())
	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "equipment not found", goerr.V(model.EquipmentIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete equipment", goerr.V(model.EquipmentIDKey, id))
	}
	return nil
}
