package domain

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// genValidArea generates valid Area values for property testing
func genValidArea() *rapid.Generator[Area] {
	return rapid.SampledFrom(AllAreas())
}

// genInvalidAreaName generates strings that no area accepts
func genInvalidAreaName() *rapid.Generator[string] {
	known := map[string]bool{
		"licensing": true, "identity": true, "security": true,
		"compliance": true, "governance": true, "platform-governance": true,
		"platform governance": true, "agents": true, "agent-platform": true,
		"agent platform": true,
	}
	return rapid.OneOf(
		rapid.Just(""),
		rapid.SampledFrom([]string{"licenses", "sec", "copilot", "tenant"}),
		rapid.StringMatching(`[a-z]{1,12}`).Filter(func(s string) bool {
			return !known[s]
		}),
	)
}

// TestArea_ParseRoundTrip tests that every area parses back from its own name
func TestArea_ParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		area := genValidArea().Draw(t, "area")

		parsed, err := ParseArea(area.String())
		if err != nil {
			t.Fatalf("area %q should parse from its own name: %v", area, err)
		}
		if parsed != area {
			t.Fatalf("area %q round-tripped to %q", area, parsed)
		}
	})
}

// TestArea_ParseIsCaseInsensitive tests that parsing ignores case and padding
func TestArea_ParseIsCaseInsensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		area := genValidArea().Draw(t, "area")
		name := area.String()

		variant := rapid.SampledFrom([]string{
			strings.ToUpper(name),
			strings.ToUpper(name[:1]) + name[1:],
			" " + name,
			name + " ",
		}).Draw(t, "variant")

		parsed, err := ParseArea(variant)
		if err != nil {
			t.Fatalf("variant %q of %q should parse: %v", variant, name, err)
		}
		if parsed != area {
			t.Fatalf("variant %q parsed to %q, want %q", variant, parsed, area)
		}
	})
}

// TestArea_InvalidNamesNeverParse tests that unknown names are rejected
func TestArea_InvalidNamesNeverParse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := genInvalidAreaName().Draw(t, "name")

		if _, err := ParseArea(name); err == nil {
			t.Fatalf("invalid area name %q should not parse", name)
		}
	})
}

// TestParseAreas_CanonicalOrderAndDeduplication tests that any permutation
// with duplicates yields the canonical declaration order without duplicates
func TestParseAreas_CanonicalOrderAndDeduplication(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		picked := rapid.SliceOfN(genValidArea(), 1, 12).Draw(t, "picked")

		names := make([]string, len(picked))
		want := map[Area]bool{}
		for i, area := range picked {
			names[i] = area.String()
			want[area] = true
		}

		areas, err := ParseAreas(names)
		if err != nil {
			t.Fatalf("valid names %v should parse: %v", names, err)
		}
		if len(areas) != len(want) {
			t.Fatalf("got %d areas, want %d distinct", len(areas), len(want))
		}
		for i := 1; i < len(areas); i++ {
			if areas[i-1] >= areas[i] {
				t.Fatalf("areas %v not in canonical order", areas)
			}
		}
		for _, area := range areas {
			if !want[area] {
				t.Fatalf("area %q was not requested", area)
			}
		}
	})
}

// TestPriority_LabelsAreDistinct tests that actionable priorities have
// distinct non-empty labels and the informational priority renders empty
func TestPriority_LabelsAreDistinct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom([]Priority{PriorityHigh, PriorityMedium, PriorityLow}).Draw(t, "a")
		b := rapid.SampledFrom([]Priority{PriorityHigh, PriorityMedium, PriorityLow}).Draw(t, "b")

		if a.String() == "" {
			t.Fatalf("actionable priority %d should have a label", a)
		}
		if a != b && a.String() == b.String() {
			t.Fatalf("priorities %d and %d share label %q", a, b, a.String())
		}
	})

	if PriorityNone.String() != "" {
		t.Fatalf("informational priority should render empty, got %q", PriorityNone.String())
	}
}
