package vocab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/storage"
)

type failingStorage struct {
	storage.Storage
	employerErr error
	categoryErr error
}

func (f *failingStorage) ListEmployers(ctx context.Context) ([]string, error) {
	if f.employerErr != nil {
		return nil, f.employerErr
	}
	return f.Storage.ListEmployers(ctx)
}

func (f *failingStorage) ListResourceCategories(ctx context.Context) ([]string, error) {
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return f.Storage.ListResourceCategories(ctx)
}

func TestLoadDeduplicatesAndSorts(t *testing.T) {
	store := storage.NewMemoryStorage()
	store.SetEmployers([]string{"Queens Library", "NYC Parks", "Queens Library", "", "Con Edison"})
	store.SetResourceCategories([]string{"Sports", "Senior Services", "Sports"})

	v := NewLoader(store, zap.NewNop()).Load(context.Background())
	assert.Equal(t, []string{"Con Edison", "NYC Parks", "Queens Library"}, v.Employers)
	assert.Equal(t, []string{"Senior Services", "Sports"}, v.Categories)
}

func TestLoadDegradesPerDimension(t *testing.T) {
	store := storage.NewMemoryStorage()
	store.SetEmployers([]string{"Queens Library"})
	store.SetResourceCategories([]string{"Sports"})

	t.Run("employer fetch fails", func(t *testing.T) {
		f := &failingStorage{Storage: store, employerErr: errors.New("down")}
		v := NewLoader(f, zap.NewNop()).Load(context.Background())
		assert.Empty(t, v.Employers)
		assert.Equal(t, []string{"Sports"}, v.Categories)
	})

	t.Run("category fetch fails", func(t *testing.T) {
		f := &failingStorage{Storage: store, categoryErr: errors.New("down")}
		v := NewLoader(f, zap.NewNop()).Load(context.Background())
		assert.Equal(t, []string{"Queens Library"}, v.Employers)
		assert.Empty(t, v.Categories)
	})
}
