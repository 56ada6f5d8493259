package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopcart/api/internal/models"
	"github.com/shopcart/api/internal/repository"
)

func TestProductService_CreateAssignsUniqueIDs(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := NewProductService(store.Products())
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 3; i++ {
		p, err := svc.CreateProduct(ctx, &models.Product{
			Name:        "Pen",
			Description: "Blue pen",
			Price:       10,
			Category:    "stationery",
			Stock:       5,
		})
		if err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if p.ID == 0 {
			t.Error("expected a non-zero id")
		}
		if seen[p.ID] {
			t.Errorf("id %d assigned twice", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestProductService_ListByCategory(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := NewProductService(store.Products())
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "Pen", Description: "Blue pen", Price: 10, Category: "stationery", Stock: 5},
		{Name: "Mug", Description: "Ceramic mug", Price: 25, Category: "kitchen", Stock: 3},
	} {
		if _, err := svc.CreateProduct(ctx, &p); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
	}

	all, err := svc.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 products, got %d", len(all))
	}

	kitchen, err := svc.ListProducts(ctx, "kitchen")
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(kitchen) != 1 || kitchen[0].Name != "Mug" {
		t.Errorf("unexpected category filter result: %+v", kitchen)
	}
}

func TestProductService_UpdateReplacesAllFields(t *testing.T) {
	store := repository.NewInMemoryStore()
	svc := NewProductService(store.Products())
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &models.Product{
		Name: "Pen", Description: "Blue pen", Price: 10, Category: "stationery", Stock: 5,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	err = svc.UpdateProduct(ctx, p.ID, &models.Product{
		Name: "Pen", Description: "Red pen", Price: 12, Category: "stationery", Stock: 7,
	})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Description != "Red pen" || got.Price != 12 || got.Stock != 7 {
		t.Errorf("unexpected product after update: %+v", got)
	}

	if err := svc.UpdateProduct(ctx, 999, got); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for absent id, got %v", err)
	}
}

func TestProductService_DeleteCascadesCarts(t *testing.T) {
	store := repository.NewInMemoryStore()
	productService := NewProductService(store.Products())
	cartService := NewCartService(store.Carts(), store.Products())
	ctx := context.Background()

	p, err := productService.CreateProduct(ctx, &models.Product{
		Name: "Pen", Description: "Blue pen", Price: 10, Category: "stationery", Stock: 5,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	cart, err := cartService.CreateCart(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("CreateCart failed: %v", err)
	}

	if err := productService.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	if _, err := cartService.GetCart(ctx, cart.ID); !errors.Is(err, repository.ErrCartNotFound) {
		t.Errorf("expected cart to be cascade-deleted, got %v", err)
	}
	carts, err := cartService.ListCartsByProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListCartsByProduct failed: %v", err)
	}
	if len(carts) != 0 {
		t.Errorf("expected no carts for deleted product, got %d", len(carts))
	}
}
