package fixes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixString(t *testing.T) {
	tables := Default()

	tests := []struct {
		in   string
		want string
	}{
		{"RUTH ESPERANA AGUILAR MARROQUIN", "RUTH ESPERANZA AGUILAR MARROQUIN"},
		{"LONG RANGE WEAPONS", "LONG-RANGE WEAPONS"},
		{"FMLN", "FMLN"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := tables.FixString(tt.in); got != tt.want {
				t.Errorf("FixString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFixRawValue(t *testing.T) {
	tables := Default()

	tests := []struct {
		name  string
		docID string
		value string
		want  string
	}{
		{
			name:  "doc scoped substring",
			docID: "DEV-MUC3-0604",
			value: `? ("BODYGUARD OF EL ESPECTADOR'S CHIEF OF DISTRIBUTION IN MEDELLIN" / "BODYGUARD"): "PEDRO LUIS OSORIO"`,
			want:  `? "BODYGUARD OF EL ESPECTADOR'S CHIEF OF DISTRIBUTION IN MEDELLIN" / "BODYGUARD" / "PEDRO LUIS OSORIO"`,
		},
		{
			name:  "doc scoped fix ignored elsewhere",
			docID: "DEV-MUC3-0001",
			value: `"BODYGUARD OF EL ESPECTADOR"`,
			want:  `"BODYGUARD OF EL ESPECTADOR"`,
		},
		{
			name:  "exact value",
			docID: "DEV-MUC3-0217",
			value: `MACHINEGUNS"`,
			want:  `"MACHINEGUNS"`,
		},
		{
			name:  "exact value requires equality",
			docID: "DEV-MUC3-0217",
			value: `"MACHINEGUNS"`,
			want:  `"MACHINEGUNS"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tables.FixRawValue(tt.docID, tt.value); got != tt.want {
				t.Errorf("FixRawValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExcluded(t *testing.T) {
	tables := Default()

	if !tables.Excluded("TST1-MUC3-0024", "MEMBER OF THE SEPARATIST ETA GROUP") {
		t.Error("expected mention to be excluded")
	}
	if tables.Excluded("TST1-MUC3-0025", "MEMBER OF THE SEPARATIST ETA GROUP") {
		t.Error("exclusion must be scoped to its document")
	}

	var zero Tables
	if zero.Excluded("TST1-MUC3-0024", "MEMBER OF THE SEPARATIST ETA GROUP") {
		t.Error("zero tables must exclude nothing")
	}
	if got := zero.FixString("TERRORIST SQUADS"); got != "TERRORIST SQUADS" {
		t.Errorf("zero tables changed string: %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixes.yaml")
	content := `strings:
  "SHINING PATH": "SENDERO LUMINOSO"
excluded_mentions:
  DEV-MUC3-0001:
    - "SOME MENTION"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := tables.FixString("SHINING PATH"); got != "SENDERO LUMINOSO" {
		t.Errorf("loaded string fix not applied: %q", got)
	}
	if got := tables.FixString("TERRORIST SQUADS"); got != "TERRORIST SQUADS" {
		t.Errorf("strings section should replace defaults, got %q", got)
	}
	if !tables.Excluded("DEV-MUC3-0001", "SOME MENTION") {
		t.Error("loaded exclusion not applied")
	}
	// raw_values absent from the file keeps the defaults
	if got := tables.FixRawValue("X", `MACHINEGUNS"`); got != `"MACHINEGUNS"` {
		t.Errorf("default raw fixes lost: %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
