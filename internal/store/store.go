package store

import (
	"context"

	"github.com/hjmartin/autobidder/internal/model"
)

// Store loads and saves the candidate item list as a flat record set.
type Store interface {
	LoadItems(ctx context.Context) ([]*model.Item, error)
	SaveItems(ctx context.Context, items []*model.Item) error
}
