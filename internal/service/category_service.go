package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/worklens/worklens/internal/adapter/store"
	"github.com/worklens/worklens/internal/domain"
	"github.com/worklens/worklens/internal/port"
)

// CategoryService exposes administrator operations on categories. Weight
// changes are the input the sync-weights pass later reconciles into commits.
type CategoryService struct {
	store *store.PostgresStore
}

// NewCategoryService creates a new category service.
func NewCategoryService(s *store.PostgresStore) *CategoryService {
	return &CategoryService{store: s}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// Get returns one category by name.
func (s *CategoryService) Get(ctx context.Context, name string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, name)
}

// SetWeight updates a category's weight (0-100) and audit-logs the change.
// The new weight reaches commits on the next sync-weights pass.
func (s *CategoryService) SetWeight(ctx context.Context, actor, name string, weight int) (*domain.Category, error) {
	if weight < domain.WeightZero || weight > domain.WeightMax {
		return nil, port.ErrInvalidWeight
	}

	cat, err := s.store.GetCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	previous := cat.Weight

	cat, err = s.store.SetCategoryWeight(ctx, name, weight)
	if err != nil {
		return nil, fmt.Errorf("set weight: %w", err)
	}

	detail, _ := json.Marshal(map[string]int{"from": previous, "to": weight})
	if err := s.store.WriteAudit(ctx, actor, domain.AuditActionWeightChange, "category", name, string(detail)); err != nil {
		slog.Error("audit write failed", "category", name, "error", err)
	}

	slog.Info("category weight changed", "category", name, "from", previous, "to", weight, "actor", actor)
	return cat, nil
}
