package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client    *firestore.Client
	risk      *riskRepository
	area      *areaRepository
	equipment *equipmentRepository
	reading   *readingRepository
	user      *userRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces every collection, e.g. for tests sharing a database
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.risk.collectionPrefix = prefix
		f.area.collectionPrefix = prefix
		f.equipment.collectionPrefix = prefix
		f.reading.collectionPrefix = prefix
		f.user.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:    client,
		risk:      newRiskRepository(client),
		area:      newAreaRepository(client),
		equipment: newEquipmentRepository(client),
		reading:   newReadingRepository(client),
		user:      newUserRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Area() interfaces.AreaRepository {
	return f.area
}

func (f *Firestore) Equipment() interfaces.EquipmentRepository {
	return f.equipment
}

func (f *Firestore) Reading() interfaces.ReadingRepository {
	return f.reading
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// CollectionName applies the optional collection prefix
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
