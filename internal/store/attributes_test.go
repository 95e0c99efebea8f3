package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/model"
)

func TestCreateAndGetAttribute(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, err := CreateAttribute(ctx, database, &model.Attribute{
		Kind: model.AttributeKindAddress, Name: "Floor", ControlType: model.ControlTextbox, Required: true,
	})
	if err != nil {
		t.Fatalf("CreateAttribute: %v", err)
	}

	got, err := GetAttribute(ctx, database, model.AttributeKindAddress, a.ID)
	if err != nil {
		t.Fatalf("GetAttribute: %v", err)
	}
	want := &model.Attribute{ID: a.ID, Kind: model.AttributeKindAddress, Name: "Floor", ControlType: model.ControlTextbox, Required: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attribute mismatch (-want +got):\n%s", diff)
	}

	// Kinds live in separate tables.
	other, err := GetAttribute(ctx, database, model.AttributeKindCustomer, a.ID)
	if err != nil {
		t.Fatalf("GetAttribute: %v", err)
	}
	if other != nil {
		t.Errorf("expected no customer attribute, got %+v", other)
	}
}

func TestAttributeUnknownKind(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateAttribute(ctx, database, &model.Attribute{Kind: "vendor", Name: "x", ControlType: model.ControlTextbox})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := ListAttributeValues(ctx, database, "vendor", 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListAttributesAndValuesInDisplayOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	kind := model.AttributeKindCustomer

	second, _ := CreateAttribute(ctx, database, &model.Attribute{Kind: kind, Name: "Newsletter", ControlType: model.ControlCheckboxes, DisplayOrder: 2})
	first, _ := CreateAttribute(ctx, database, &model.Attribute{Kind: kind, Name: "Size", ControlType: model.ControlDropdown, DisplayOrder: 1})

	attrs, err := ListAttributes(ctx, database, kind)
	if err != nil {
		t.Fatalf("ListAttributes: %v", err)
	}
	if len(attrs) != 2 || attrs[0].ID != first.ID || attrs[1].ID != second.ID {
		t.Fatalf("unexpected order %+v", attrs)
	}

	large, _ := CreateAttributeValue(ctx, database, &model.AttributeValue{Kind: kind, AttributeID: first.ID, Name: "L", DisplayOrder: 3})
	small, _ := CreateAttributeValue(ctx, database, &model.AttributeValue{Kind: kind, AttributeID: first.ID, Name: "S", DisplayOrder: 1, IsPreSelected: true})
	CreateAttributeValue(ctx, database, &model.AttributeValue{Kind: kind, AttributeID: second.ID, Name: "Weekly"})

	values, err := ListAttributeValues(ctx, database, kind, first.ID)
	if err != nil {
		t.Fatalf("ListAttributeValues: %v", err)
	}
	want := []model.AttributeValue{*small, *large}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if !values[0].IsPreSelected {
		t.Error("expected pre-selected flag to persist")
	}

	got, _ := GetAttributeValue(ctx, database, kind, large.ID)
	if got == nil || got.Name != "L" || got.AttributeID != first.ID {
		t.Errorf("unexpected value %+v", got)
	}
	if missing, _ := GetAttributeValue(ctx, database, kind, 999); missing != nil {
		t.Errorf("expected nil for missing value, got %+v", missing)
	}
}

func TestLocalizedFallback(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateAttribute(ctx, database, &model.Attribute{Kind: model.AttributeKindAddress, Name: "Floor", ControlType: model.ControlTextbox})
	key := a.LocaleKey(model.FieldName)

	if err := SetLocalized(ctx, database, key, 2, "Nadstropje"); err != nil {
		t.Fatalf("SetLocalized: %v", err)
	}
	if err := SetLocalized(ctx, database, key, 3, ""); err != nil {
		t.Fatalf("SetLocalized: %v", err)
	}

	tests := []struct {
		name     string
		language int64
		expected string
	}{
		{"translated", 2, "Nadstropje"},
		{"empty translation", 3, "Floor"},
		{"missing translation", 4, "Floor"},
		{"no language", 0, "Floor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetLocalized(ctx, database, key, tt.language, a.Name)
			if err != nil {
				t.Fatalf("GetLocalized: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	// Upsert replaces the existing translation.
	SetLocalized(ctx, database, key, 2, "Etaža")
	got, _ := GetLocalized(ctx, database, key, 2, a.Name)
	if got != "Etaža" {
		t.Errorf("expected updated translation, got %q", got)
	}

	// Values of the same id in another group stay separate.
	v := model.AttributeValue{ID: a.ID, Kind: model.AttributeKindAddress}
	got, _ = GetLocalized(ctx, database, v.LocaleKey(model.FieldName), 2, "value")
	if got != "value" {
		t.Errorf("expected fallback for value key, got %q", got)
	}
}
