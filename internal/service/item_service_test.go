package service

import (
	"context"
	"testing"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/logging"
)

func TestItemService_CreateParsesPrice(t *testing.T) {
	ctx := context.Background()
	svc := NewItemService(newTestRepos().Items, logging.Discard())

	item, err := svc.Create(ctx, domain.ItemInput{Name: "Logo design", UnitPrice: "$1,200.50", Unit: "project"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.UnitPrice != 1200.5 || item.Unit != domain.UnitProject {
		t.Fatalf("unexpected item %+v", item)
	}

	_, err = svc.Create(ctx, domain.ItemInput{Name: "Free", UnitPrice: "0"})
	assertViolation(t, err, "unitPrice", "Valid unit price is required")
}

func TestItemService_UpdateAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewItemService(newTestRepos().Items, logging.Discard())

	item, _ := svc.Create(ctx, domain.ItemInput{Name: "Hosting", Description: "monthly VPS", UnitPrice: "30", Unit: "month"})
	svc.Create(ctx, domain.ItemInput{Name: "Support", UnitPrice: "80"})

	updated, err := svc.Update(ctx, item.ID, domain.ItemInput{Name: "Hosting", Description: "managed VPS", UnitPrice: "45", Unit: "month"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UnitPrice != 45 || updated.ID != item.ID {
		t.Fatalf("unexpected update %+v", updated)
	}

	found, _ := svc.Search(ctx, "vps")
	if len(found) != 1 || found[0].ID != item.ID {
		t.Fatalf("expected description search to find hosting, got %+v", found)
	}

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := svc.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(all))
	}
}
