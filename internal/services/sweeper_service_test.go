// internal/services/sweeper_service_test.go
package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/agrimarket-backend/internal/config"
)

type staticRefs map[string]bool

func (r staticRefs) ReferencedImages(context.Context) (map[string]bool, error) {
	return r, nil
}

func TestOrphanSweeperRemovesOnlyOldUnreferencedFiles(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalFileStore(dir, "http://localhost")
	require.NoError(t, err)

	for _, name := range []string{"kept.png", "orphan.png", "fresh.png"} {
		require.NoError(t, store.Save(ctx, name, strings.NewReader(name), ""))
	}
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "kept.png"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "orphan.png"), old, old))

	sweeper := NewOrphanSweeper(store, staticRefs{"kept.png": true}, time.Hour)
	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.png"}, removed)

	files, err := store.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"kept.png", "fresh.png"}, names)
}

func TestOrphanSweeperWithProductReferences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newFakeS3()
	store := NewS3FileStoreWithClient(client, config.AWSConfig{Region: "us-east-1", S3Bucket: "agri"})

	require.NoError(t, store.Save(ctx, "used.png", strings.NewReader("u"), ""))
	require.NoError(t, store.Save(ctx, "stray.png", strings.NewReader("s"), ""))
	used := "used.png"
	createProduct(t, db, "Rice", &used)

	sweeper := NewOrphanSweeper(store, NewProductService(db, store), time.Hour)
	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"stray.png"}, removed)
	assert.Contains(t, client.objects, "products/used.png")
}

func TestOrphanSweeperSchedule(t *testing.T) {
	sweeper := NewOrphanSweeper(newLocalStore(t), staticRefs{}, time.Hour)

	assert.Error(t, sweeper.Start("every tuesday"))

	require.NoError(t, sweeper.Start("@every 1h"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sweeper.Stop(ctx)
}
