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

const AreaCollection = "areas"

type areaDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func areaToStorage(a *model.PlantArea) *areaDocument {
	return &areaDocument{
		ID:        a.ID.String(),
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func areaFromStorage(doc *areaDocument) *model.PlantArea {
	return &model.PlantArea{
		ID:        model.AreaID(doc.ID),
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type areaRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAreaRepository(client *firestore.Client) *areaRepository {
	return &areaRepository{client: client}
}

func (r *areaRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, AreaCollection))
}

func (r *areaRepository) Create(ctx context.Context, area *model.PlantArea) (*model.PlantArea, error) {
	created := *area
	if created.ID == "" {
		created.ID = model.NewAreaID()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.collection().Doc(created.ID.String()).Set(ctx, areaToStorage(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create area", goerr.V(model.AreaIDKey, created.ID))
	}
	return &created, nil
}

func (r *areaRepository) Get(ctx context.Context, id model.AreaID) (*model.PlantArea, error) {
	snap, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get area", goerr.V(model.AreaIDKey, id))
	}

	var doc areaDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode area", goerr.V(model.AreaIDKey, id))
	}
	return areaFromStorage(&doc), nil
}

func (r *areaRepository) List(ctx context.Context) ([]*model.PlantArea, error) {
	iter := r.collection().OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var areas []*model.PlantArea
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate areas")
		}

		var doc areaDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode area", goerr.V("doc_id", snap.Ref.ID))
		}
		areas = append(areas, areaFromStorage(&doc))
	}
	return areas, nil
}

func (r *areaRepository) Rename(ctx context.Context, id model.AreaID, name string) (*model.PlantArea, error) {
	docRef := r.collection().Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "name", Value: name},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to rename area", goerr.V(model.AreaIDKey, id))
	}

	return r.Get(ctx, id)
}

func (r *areaRepository) Delete(ctx context.Context, id model.AreaID) error {
	docRef := r.collection().Doc(id.String())
	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete area", goerr.V(model.AreaIDKey, id))
	}
	return nil
}
