package gesture

import "testing"

func TestValidateCatalogMatch(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
	}{
		{"exact name", "that is the gyan mudra", "gyan"},
		{"case insensitive", "A beautiful ANJALI position", "anjali"},
		{"substring inside word", "your varada-like pose", "varada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.text)
			if v == nil {
				t.Fatal("got nil validation")
			}
			if v.Name != tt.wantName {
				t.Errorf("name = %q, want %q", v.Name, tt.wantName)
			}
			if v.Intuitive {
				t.Error("catalog match should not be intuitive")
			}
		})
	}
}

func TestValidatePrecedenceFollowsCatalogOrder(t *testing.T) {
	// "garuda" appears first in the text, but "prana" is declared
	// earlier in the catalog and must win.
	v := Validate("I see garuda energy with a hint of prana")
	if v == nil {
		t.Fatal("got nil validation")
	}
	if v.Name != "prana" {
		t.Errorf("name = %q, want %q", v.Name, "prana")
	}
}

func TestValidateIntuitiveFallback(t *testing.T) {
	v := Validate("an unusual flowing MOVEMENT of the hands")
	if v == nil {
		t.Fatal("got nil validation")
	}
	if !v.Intuitive {
		t.Error("expected intuitive validation")
	}
	if v.Power != 0 || v.Tier != "" {
		t.Errorf("intuitive validation should carry no power or tier, got %+v", v)
	}
}

func TestValidateNoMatch(t *testing.T) {
	if v := Validate("hello, nice weather today"); v != nil {
		t.Errorf("expected nil, got %+v", v)
	}
}
