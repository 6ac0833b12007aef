package autocrud

import (
	"errors"
	"testing"
	"time"
)

func TestNewDescriptorRejectsBadModels(t *testing.T) {
	cases := []struct {
		name  string
		model Model
	}{
		{"nil model", nil},
		{"empty name", testModel{name: "", fields: []Field{{Name: "id", Kind: KindString, PrimaryKey: true}}}},
		{"no fields", testModel{name: "things"}},
		{"unnamed field", testModel{name: "things", fields: []Field{{Kind: KindString, PrimaryKey: true}}}},
		{"duplicate field", testModel{name: "things", fields: []Field{
			{Name: "id", Kind: KindString, PrimaryKey: true},
			{Name: "id", Kind: KindString},
		}}},
		{"no primary key", testModel{name: "things", fields: []Field{{Name: "id", Kind: KindString}}}},
		{"two primary keys", testModel{name: "things", fields: []Field{
			{Name: "id", Kind: KindString, PrimaryKey: true},
			{Name: "alt", Kind: KindString, PrimaryKey: true},
		}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDescriptor(tc.model); !errors.Is(err, ErrDescriptor) {
				t.Fatalf("expected ErrDescriptor, got %v", err)
			}
		})
	}
}

func TestDescriptorAccessors(t *testing.T) {
	desc, err := NewDescriptor(articleModel())
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	if desc.Name() != "articles" {
		t.Fatalf("unexpected name %q", desc.Name())
	}
	if pk := desc.PrimaryKey(); pk.Name != "id" || pk.Kind != KindString {
		t.Fatalf("unexpected primary key %+v", pk)
	}
	if !desc.HasField("title") || desc.HasField("bogus") {
		t.Fatal("HasField misreported the field set")
	}
	if f, ok := desc.Field("views"); !ok || f.Kind != KindInt {
		t.Fatalf("unexpected field lookup: %+v ok=%v", f, ok)
	}

	// Mutating the returned slice must not affect the descriptor.
	fields := desc.Fields()
	fields[0].Name = "mutated"
	if desc.PrimaryKey().Name != "id" {
		t.Fatal("expected Fields to return a copy")
	}
}

func TestValidateCreate(t *testing.T) {
	desc, err := NewDescriptor(articleModel())
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	cases := []struct {
		name    string
		payload Record
		wantErr bool
	}{
		{"full payload", Record{"id": "a1", "title": "x", "views": 3, "draft": false}, false},
		{"defaults and pk omitted", Record{"title": "x"}, false},
		{"json integer as float64", Record{"title": "x", "views": float64(7)}, false},
		{"nil payload", nil, true},
		{"missing required", Record{"id": "a1"}, true},
		{"unknown field", Record{"title": "x", "color": "red"}, true},
		{"fractional int", Record{"title": "x", "views": 1.5}, true},
		{"kind mismatch", Record{"title": true}, true},
		{"non-nullable nil", Record{"title": nil}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := desc.ValidateCreate(tc.payload)
			if tc.wantErr && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCreateTimeKinds(t *testing.T) {
	desc, err := NewDescriptor(testModel{
		name: "events",
		fields: []Field{
			{Name: "id", Kind: KindString, PrimaryKey: true},
			{Name: "at", Kind: KindTime},
		},
	})
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	if err := desc.ValidateCreate(Record{"at": time.Now()}); err != nil {
		t.Fatalf("time.Time rejected: %v", err)
	}
	if err := desc.ValidateCreate(Record{"at": "2026-08-29T12:00:00Z"}); err != nil {
		t.Fatalf("RFC 3339 string rejected: %v", err)
	}
	if err := desc.ValidateCreate(Record{"at": "yesterday"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unparseable time, got %v", err)
	}
}

func TestApplyDefaultsDoesNotMutateInput(t *testing.T) {
	desc, err := NewDescriptor(articleModel())
	if err != nil {
		t.Fatalf("NewDescriptor failed: %v", err)
	}

	in := Record{"title": "x"}
	out := desc.ApplyDefaults(in)

	if _, present := in["views"]; present {
		t.Fatal("expected input record to stay untouched")
	}
	if out["views"] != 0 || out["draft"] != true {
		t.Fatalf("expected defaults to be filled, got %v", out)
	}
	if out["title"] != "x" {
		t.Fatal("expected supplied values to survive")
	}

	explicit := desc.ApplyDefaults(Record{"title": "x", "draft": false})
	if explicit["draft"] != false {
		t.Fatal("expected explicit value to beat the default")
	}
}
