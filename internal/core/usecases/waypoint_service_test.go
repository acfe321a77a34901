package usecases_test

import (
	"context"
	"testing"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
)

func TestWaypointService_Upsert_NormalizesIdent(t *testing.T) {
	var stored *domain.Waypoint
	repo := &mockWaypointRepo{
		upsertFn: func(ctx context.Context, wp *domain.Waypoint) error {
			stored = wp
			return nil
		},
	}
	svc := usecases.NewWaypointService(repo, nil)

	wp := domain.Waypoint{Ident: " lebb ", Kind: "airport", Location: domain.GeoPoint{Lat: 43.3, Lon: -2.9}}
	if err := svc.Upsert(context.Background(), &wp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.Ident != "LEBB" {
		t.Errorf("expected normalized ident LEBB, got %+v", stored)
	}
}

func TestWaypointService_Upsert_Invalid(t *testing.T) {
	svc := usecases.NewWaypointService(&mockWaypointRepo{}, nil)

	cases := []domain.Waypoint{
		{Ident: "", Location: domain.GeoPoint{Lat: 0, Lon: 0}},
		{Ident: "LEBB", Location: domain.GeoPoint{Lat: 95, Lon: 0}},
		{Ident: "LEBB", Location: domain.GeoPoint{Lat: 0, Lon: 181}},
	}
	for i, wp := range cases {
		if err := svc.Upsert(context.Background(), &wp); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestWaypointService_UpsertBatch_RejectsInvalidEntry(t *testing.T) {
	called := false
	repo := &mockWaypointRepo{
		upsertBatchFn: func(ctx context.Context, wps []domain.Waypoint) error {
			called = true
			return nil
		},
	}
	svc := usecases.NewWaypointService(repo, nil)

	wps := []domain.Waypoint{
		{Ident: "LEBB", Location: domain.GeoPoint{Lat: 43.3, Lon: -2.9}},
		{Ident: "", Location: domain.GeoPoint{Lat: 0, Lon: 0}},
	}
	if err := svc.UpsertBatch(context.Background(), wps); err == nil {
		t.Fatal("expected error for invalid batch entry")
	}
	if called {
		t.Error("repo should not be called when validation fails")
	}
}

func TestWaypointService_FindNearby_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockWaypointRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Waypoint, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := usecases.NewWaypointService(repo, nil)

	if _, err := svc.FindNearby(context.Background(), 43.3, -2.9, 10000, 9999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("expected limit clamped to 50, got %d", gotLimit)
	}
}

func TestWaypointService_Search_EmptyQuery(t *testing.T) {
	svc := usecases.NewWaypointService(&mockWaypointRepo{}, nil)

	if _, err := svc.Search(context.Background(), "", 10); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestWaypointService_GetByIdent_Normalizes(t *testing.T) {
	var gotIdent string
	repo := &mockWaypointRepo{
		getByIdentFn: func(ctx context.Context, ident string) (*domain.Waypoint, error) {
			gotIdent = ident
			return &domain.Waypoint{Ident: ident}, nil
		},
	}
	svc := usecases.NewWaypointService(repo, nil)

	if _, err := svc.GetByIdent(context.Background(), "  lemd "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotIdent != "LEMD" {
		t.Errorf("expected LEMD, got %q", gotIdent)
	}
}
