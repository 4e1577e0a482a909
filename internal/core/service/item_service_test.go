package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
)

type stubItemRepository struct {
	items map[string]*domain.Item
}

func newStubItemRepository() *stubItemRepository {
	return &stubItemRepository{items: make(map[string]*domain.Item)}
}

func (r *stubItemRepository) Create(_ context.Context, i *domain.Item) (*domain.Item, error) {
	if i.ID == "" {
		i.ID = "item-1"
	}
	cp := *i
	r.items[i.ID] = &cp
	return &cp, nil
}

func (r *stubItemRepository) FindByID(_ context.Context, id string) (*domain.Item, error) {
	if i, ok := r.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, domain.ErrItemNotFound
}

func (r *stubItemRepository) List(_ context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubItemRepository) Update(_ context.Context, i *domain.Item) (*domain.Item, error) {
	if _, ok := r.items[i.ID]; !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *i
	r.items[i.ID] = &cp
	return &cp, nil
}

func (r *stubItemRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubItemRepository) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func TestItemService_Create(t *testing.T) {
	svc := NewItemService(newStubItemRepository())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	created, err := svc.Create(context.Background(), &domain.Item{Name: "Gauze", Quantity: 40, Price: 2.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if !created.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", created.CreatedAt)
	}
}

func TestItemService_Create_Invalid(t *testing.T) {
	svc := NewItemService(newStubItemRepository())

	if _, err := svc.Create(context.Background(), &domain.Item{Quantity: 1}); err != errItemName {
		t.Fatalf("expected errItemName, got %v", err)
	}
	if _, err := svc.Create(context.Background(), &domain.Item{Name: "Gauze", Quantity: -1}); err != errItemQuantity {
		t.Fatalf("expected errItemQuantity, got %v", err)
	}
}

func TestItemService_Update(t *testing.T) {
	repo := newStubItemRepository()
	svc := NewItemService(repo)

	created, err := svc.Create(context.Background(), &domain.Item{Name: "Gauze", Quantity: 40})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), &domain.Item{ID: created.ID, Name: "Gauze XL", Quantity: 15})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Gauze XL" || updated.Quantity != 15 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not rewrite created_at")
	}
}

func TestItemService_Update_Unknown(t *testing.T) {
	svc := NewItemService(newStubItemRepository())

	_, err := svc.Update(context.Background(), &domain.Item{ID: "missing", Name: "Gauze", Quantity: 1})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
