package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/repository/firestore"
	"github.com/biogas-ops/gutboard/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

type newRepoFunc func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func runBothBackends(t *testing.T, run func(t *testing.T, newRepo newRepoFunc)) {
	t.Run("memory", func(t *testing.T) {
		run(t, newMemoryRepository)
	})
	t.Run("firestore", func(t *testing.T) {
		run(t, newFirestoreRepository)
	})
}
