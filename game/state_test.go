package game

import (
	"strings"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		"#######",
		"#.G.E.#",
		"#E.G.E#",
		"#.G.E.#",
		"#######",
	}, "\n") + "\n"

	b, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := b.Render(); got != input {
		t.Fatalf("render mismatch:\ngot:\n%swant:\n%s", got, input)
	}

	if got := len(b.Units); got != 7 {
		t.Fatalf("expected 7 units, got %d", got)
	}
	if b.Count(Elf) != 4 || b.Count(Goblin) != 3 {
		t.Fatalf("faction counts wrong: %d elves, %d goblins", b.Count(Elf), b.Count(Goblin))
	}
	if b.FactionsRemaining() != 2 {
		t.Fatalf("expected 2 factions, got %d", b.FactionsRemaining())
	}
}

func TestParseRejectsUnknownCharacter(t *testing.T) {
	_, err := Parse("#####\n#.X.#\n#####\n")
	if err == nil {
		t.Fatal("expected error for unknown grid character")
	}
	if !strings.Contains(err.Error(), "'X'") {
		t.Fatalf("error should name the bad character, got: %v", err)
	}
}

func TestParseRejectsOpenBorder(t *testing.T) {
	cases := []string{
		".####\n#E.G#\n#####\n",
		"#####\n#E.GG\n#####\n",
		"#####\n#E.G#\n##.##\n",
	}
	for _, grid := range cases {
		if _, err := Parse(grid); err == nil {
			t.Fatalf("expected enclosure error for:\n%s", grid)
		}
	}
}

func TestParseAssignsIDsInReadingOrder(t *testing.T) {
	b, err := Parse("#####\n#G.E#\n#E.G#\n#####\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	positions := b.Positions()
	want := []Coordinate{{1, 1}, {1, 3}, {2, 1}, {2, 3}}
	for i, c := range positions {
		if c != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, c, want[i])
		}
		if b.Units[c].ID != int32(i) {
			t.Fatalf("unit at %v has id %d, want %d", c, b.Units[c].ID, i)
		}
	}
}

func TestParseOptionsControlStats(t *testing.T) {
	b, err := ParseWithOptions("###\n#E#\n###\n", ParseOptions{InitialHealth: 50, BasePower: 9})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u := b.Units[Coordinate{1, 1}]
	if u.Health != 50 || u.Power != 9 {
		t.Fatalf("got health=%d power=%d, want 50/9", u.Health, u.Power)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b, err := Parse("#####\n#E.G#\n#####\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	clone := b.Clone()
	clone.Units[Coordinate{1, 1}].Health = 1
	delete(clone.Units, Coordinate{1, 3})
	clone.Rounds = 12

	if b.Units[Coordinate{1, 1}].Health != DefaultHealth {
		t.Fatal("clone mutation leaked into original unit")
	}
	if len(b.Units) != 2 {
		t.Fatal("clone deletion leaked into original map")
	}
	if b.Rounds != 0 {
		t.Fatal("clone round counter leaked into original")
	}
}

func TestAdjacentSkipsWalls(t *testing.T) {
	b, err := Parse("#####\n#...#\n#.#.#\n#...#\n#####\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := b.Arena.Adjacent(Coordinate{2, 1})
	want := []Coordinate{{1, 1}, {3, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestAdjacentPanicsOnBorder(t *testing.T) {
	b, err := Parse("###\n#.#\n###\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for border cell")
		}
	}()
	b.Arena.Adjacent(Coordinate{0, 0})
}

func TestCoordinateBefore(t *testing.T) {
	cases := []struct {
		a, b Coordinate
		want bool
	}{
		{Coordinate{1, 5}, Coordinate{2, 0}, true},
		{Coordinate{2, 0}, Coordinate{1, 5}, false},
		{Coordinate{3, 2}, Coordinate{3, 4}, true},
		{Coordinate{3, 4}, Coordinate{3, 4}, false},
	}
	for _, c := range cases {
		if got := c.a.Before(c.b); got != c.want {
			t.Fatalf("%v.Before(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSetPowerAndHealthSum(t *testing.T) {
	b, err := Parse("#####\n#E.G#\n#####\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	b.SetPower(Elf, 20)
	if b.Units[Coordinate{1, 1}].Power != 20 {
		t.Fatal("elf power not updated")
	}
	if b.Units[Coordinate{1, 3}].Power != DefaultPower {
		t.Fatal("goblin power should be untouched")
	}
	if got := b.HealthSum(); got != 400 {
		t.Fatalf("health sum = %d, want 400", got)
	}
}
