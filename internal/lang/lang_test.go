package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase_code", "pt", "pt"},
		{"uppercase_code", "PT", "pt"},
		{"full_name", "Portuguese", "portuguese"},
		{"surrounding_whitespace", "  english ", "english"},
		{"mixed_case_and_space", " FRENCH\t", "french"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTableResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   *Table
		input   string
		want    string
		wantErr bool
	}{
		{"iso_full_name", ISO639(), "portuguese", "pt", false},
		{"iso_short_code", ISO639(), "pt", "pt", false},
		{"iso_uppercase_name", ISO639(), "English", "en", false},
		{"iso_padded_code", ISO639(), " de ", "de", false},
		{"scripted_full_name", Scripted(), "portuguese", "por_Latn", false},
		{"scripted_short_code", Scripted(), "zh", "zho_Hans", false},
		{"scripted_cyrillic", Scripted(), "russian", "rus_Cyrl", false},
		{"unknown_name", ISO639(), "klingon", "", true},
		{"empty_input", ISO639(), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.table.Resolve(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Fatalf("Resolve(%q) error = %v, want ErrUnsupported", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveErrorNamesInput(t *testing.T) {
	t.Parallel()

	_, err := ISO639().Resolve("esperanto")
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if want := `"esperanto"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain the offending input %s", err, want)
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table *Table
		tag   string
		want  string
	}{
		{"iso_known", ISO639(), "pt", "Portuguese"},
		{"scripted_known", Scripted(), "por_Latn", "Portuguese"},
		{"unknown_falls_back_to_tag", ISO639(), "xx", "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.table.DisplayName(tt.tag); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestNamesSortedAndFullOnly(t *testing.T) {
	t.Parallel()

	names := ISO639().Names()
	if len(names) == 0 {
		t.Fatal("expected language names")
	}
	for i, name := range names {
		if len(name) <= 2 {
			t.Errorf("Names() contains short code %q, want full names only", name)
		}
		if i > 0 && names[i-1] > name {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], name)
		}
	}
}

func TestNamesReturnsCopy(t *testing.T) {
	t.Parallel()

	table := ISO639()
	first := table.Names()
	first[0] = "mutated"
	if second := table.Names(); second[0] == "mutated" {
		t.Error("Names() exposes internal slice")
	}
}
