package domain

import (
	"errors"
	"testing"
)

func TestClientInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		input ClientInput
		want  Violations
	}{
		{"valid", ClientInput{Name: "Acme", Email: "billing@acme.io"}, Violations{}},
		{"missing name", ClientInput{Email: "a@b.co"}, Violations{"name": "Client name is required"}},
		{"missing email", ClientInput{Name: "Acme"}, Violations{"email": "Email is required"}},
		{"bad email", ClientInput{Name: "Acme", Email: "acme.io"}, Violations{"email": "Email is invalid"}},
		{"blank name", ClientInput{Name: "   ", Email: "x@y.z"}, Violations{"name": "Client name is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Validate()
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
			for field, msg := range tt.want {
				if got[field] != msg {
					t.Errorf("%s: got %q, want %q", field, got[field], msg)
				}
			}
		})
	}
}

func TestItemInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		input  ItemInput
		fields []string
	}{
		{"valid", ItemInput{Name: "Logo", UnitPrice: "120"}, nil},
		{"zero price", ItemInput{Name: "Logo", UnitPrice: "0"}, []string{"unitPrice"}},
		{"negative price", ItemInput{Name: "Logo", UnitPrice: "-1"}, []string{"unitPrice"}},
		{"text price", ItemInput{Name: "Logo", UnitPrice: "lots"}, []string{"unitPrice"}},
		{"bad unit", ItemInput{Name: "Logo", UnitPrice: "5", Unit: "week"}, []string{"unit"}},
		{"empty", ItemInput{}, []string{"name", "unitPrice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Validate()
			if len(got) != len(tt.fields) {
				t.Fatalf("Validate() = %v, want fields %v", got, tt.fields)
			}
			for _, f := range tt.fields {
				if _, ok := got[f]; !ok {
					t.Errorf("missing violation for %s", f)
				}
			}
		})
	}
}

func TestNewItem_DefaultsUnit(t *testing.T) {
	item := NewItem(ItemInput{Name: " Support ", UnitPrice: "80"})
	if item.Unit != UnitHour {
		t.Errorf("expected default unit hour, got %q", item.Unit)
	}
	if item.Name != "Support" || item.UnitPrice != 80 {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestProfileInput_Validate(t *testing.T) {
	v := ProfileInput{}.Validate()
	if v["companyName"] != "Company name is required" || v["email"] != "Email is required" {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestViolations_Err(t *testing.T) {
	if err := (Violations{}).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	err := Violations{"name": "Client name is required"}.Err()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Violations["name"] != "Client name is required" {
		t.Fatalf("unexpected violations %v", verr.Violations)
	}
}

func TestClient_Matches(t *testing.T) {
	c := Client{Name: "Globex", Email: "ap@globex.com", ContactPerson: "Hank Scorpio"}
	for _, term := range []string{"glob", "AP@", "scorpio", ""} {
		if !c.Matches(term) {
			t.Errorf("expected match for %q", term)
		}
	}
	if c.Matches("initech") {
		t.Error("unexpected match")
	}
}

func TestParseTheme(t *testing.T) {
	if th, err := ParseTheme("Light"); err != nil || th != ThemeLight {
		t.Fatalf("ParseTheme(Light) = %q, %v", th, err)
	}
	if _, err := ParseTheme("blue"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}
