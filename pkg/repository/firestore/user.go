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

const UserCollection = "users"

type userDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func userToStorage(u *model.User) *userDocument {
	return &userDocument{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userFromStorage(doc *userDocument) *model.User {
	return &model.User{
		ID:        doc.ID,
		Name:      doc.Name,
		Role:      types.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type userRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{client: client}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, UserCollection))
}

func (r *userRepository) Put(ctx context.Context, user *model.User) (*model.User, error) {
	docRef := r.collection().Doc(user.ID)

	var stored *model.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stored = &model.User{ID: user.ID, Name: user.Name, Role: user.Role}
		now := time.Now().UTC().Truncate(time.Microsecond)
		stored.CreatedAt = now
		stored.UpdatedAt = now

		snap, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing userDocument
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode user", goerr.V(model.UserIDKey, user.ID))
			}
			stored.CreatedAt = existing.CreatedAt
		case status.Code(err) != codes.NotFound:
			return goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, user.ID))
		}

		return tx.Set(docRef, userToStorage(stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put user", goerr.V(model.UserIDKey, user.ID))
	}
	return stored, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	snap, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V(model.UserIDKey, id))
	}
	return userFromStorage(&doc), nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var users []*model.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", snap.Ref.ID))
		}
		users = append(users, userFromStorage(&doc))
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	docRef := r.collection().Doc(id)
	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrNotFound, "user not found", goerr.V(model.UserIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete user", goerr.V(model.UserIDKey, id))
	}
	return nil
}
