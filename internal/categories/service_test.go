package categories

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/query"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(dbtest.Open(t)), BaseURL: "http://localhost:8000"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateDerivesSlugAndImageURL(t *testing.T) {
	svc := newTestService(t)
	image := "electronics.png"
	cat, err := svc.Create(context.Background(), CreateCategoryRequest{Name: " Home Electronics ", Image: &image})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.Name != "Home Electronics" || cat.Slug != "home-electronics" {
		t.Fatalf("unexpected name/slug %q %q", cat.Name, cat.Slug)
	}
	if cat.Image == nil || *cat.Image != "http://localhost:8000/categories/electronics.png" {
		t.Fatalf("unexpected image %v", cat.Image)
	}
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Books"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateCategoryRequest{Name: "Books"}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateRegeneratesSlugAndMissingIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	cat, err := svc.Create(ctx, CreateCategoryRequest{Name: "Books"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	name := "Rare Books"
	updated, err := svc.Update(ctx, cat.ID, UpdateCategoryRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "rare-books" {
		t.Fatalf("expected regenerated slug, got %q", updated.Slug)
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.New()); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
	if err := svc.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := svc.Exists(ctx, cat.ID)
	if err != nil || ok {
		t.Fatalf("expected deleted category to be gone, ok=%v err=%v", ok, err)
	}
}

func TestListKeywordsAndPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"Men Fashion", "Women Fashion", "Phones"} {
		if _, err := svc.Create(ctx, CreateCategoryRequest{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	spec, err := query.Parse(url.Values{"keywords": {"FASHION"}, "limit": {"1"}}, ListSchema)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	items, meta, err := svc.List(ctx, spec)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Men Fashion" {
		t.Fatalf("unexpected items %+v", items)
	}
	if meta.NumberOfPages != 2 || meta.NextPage == nil || *meta.NextPage != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
}
