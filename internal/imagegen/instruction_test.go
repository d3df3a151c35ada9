package imagegen

import (
	"strings"
	"testing"
)

func TestBuildInstruction(t *testing.T) {
	got := BuildInstruction()

	checks := []string{
		"Put the character from the profile picture inside the helmet image.",
		"create an appropriate body",
		"natural and well-integrated",
		"wearing or inside the helmet",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
	if strings.Contains(got, "\n") || strings.Contains(got, "  ") {
		t.Fatalf("instruction not collapsed: %q", got)
	}
}
