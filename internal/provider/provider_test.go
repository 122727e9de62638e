package provider

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	providers := Builtins()

	tests := []struct {
		name        string
		query       string
		wantFound   bool
		wantPrimary string
	}{
		{name: "exact", query: "quad9", wantFound: true, wantPrimary: "9.9.9.9"},
		{name: "case insensitive", query: "Electro", wantFound: true, wantPrimary: "78.157.42.100"},
		{name: "unknown", query: "nosuch", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Lookup(providers, tt.query)
			if ok != tt.wantFound {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.query, ok, tt.wantFound)
			}
			if ok && p.Primary != tt.wantPrimary {
				t.Errorf("primary = %q, want %q", p.Primary, tt.wantPrimary)
			}
		})
	}
}

func TestLoadWithoutPresetsFile(t *testing.T) {
	providers, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(providers) != len(Builtins()) {
		t.Errorf("got %d providers, want %d", len(providers), len(Builtins()))
	}
}

func TestLoadMergesUserPresets(t *testing.T) {
	dir := t.TempDir()
	yaml := `providers:
  - name: office
    primary: 10.1.1.53
    secondary: 10.1.2.53
  - name: quad9
    primary: 9.9.9.10
`
	if err := os.WriteFile(filepath.Join(dir, presetsFile), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	providers, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	office, ok := Lookup(providers, "office")
	if !ok {
		t.Fatal("user preset not loaded")
	}
	if office.Secondary != "10.1.2.53" {
		t.Errorf("office secondary = %q", office.Secondary)
	}
	if office.BuiltIn {
		t.Error("user preset flagged as built-in")
	}

	// The user entry overrides the built-in of the same name without
	// duplicating it.
	quad9, _ := Lookup(providers, "quad9")
	if quad9.Primary != "9.9.9.10" {
		t.Errorf("quad9 primary = %q, want override", quad9.Primary)
	}
	if len(providers) != len(Builtins())+1 {
		t.Errorf("got %d providers, want %d", len(providers), len(Builtins())+1)
	}
}

func TestLoadRejectsBadAddresses(t *testing.T) {
	dir := t.TempDir()
	yaml := `providers:
  - name: broken
    primary: 999.999.999.999
`
	if err := os.WriteFile(filepath.Join(dir, presetsFile), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected validation error")
	}
}
