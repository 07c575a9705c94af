package identify

import "testing"

func TestParseStem(t *testing.T) {
	cases := []struct {
		stem   string
		title  string
		artist string
	}{
		{"Artist - Song Title", "Song Title", "Artist"},
		{"Artist – Song Title", "Song Title", "Artist"},
		{"Artist | Song Title", "Song Title", "Artist"},
		{"Artist / Song Title", "Song Title", "Artist"},
		{"Artist - Song (Official Video)", "Song", "Artist"},
		{"Artist - Song [HD 1080p]", "Song", "Artist"},
		{"Just A Title", "Just A Title", ""},
		{"Artist  -   Spaced   Out", "Spaced Out", "Artist"},
		{"", "", ""},
	}

	for _, c := range cases {
		title, artist := ParseStem(c.stem)
		if title != c.title || artist != c.artist {
			t.Errorf("ParseStem(%q) = (%q, %q), want (%q, %q)",
				c.stem, title, artist, c.title, c.artist)
		}
	}
}

func TestParseStem_DashInsideTitleSplitsWrong(t *testing.T) {
	// Known heuristic limitation: the first dash wins.
	title, artist := ParseStem("Re - Member - Song")
	if artist != "Re" || title != "Member - Song" {
		t.Errorf("got (%q, %q), expected greedy-left split", title, artist)
	}
}

func TestYearFromStem(t *testing.T) {
	cases := []struct {
		stem string
		year int
		ok   bool
	}{
		{"Artist - Song (2023) Live", 2023, true},
		{"2024 - Artist - Song", 2024, true},
		{"Artist - Song 2019", 2019, true},
		{"Song Title", 0, false},
		{"Track 12023 edit", 0, false}, // digit-bounded, not a year token
		{"Song 1999", 0, false},        // below the 20xx window
		{"Song 2031", 0, false},        // pattern only covers 2000-2029
	}

	for _, c := range cases {
		year, ok := YearFromStem(c.stem)
		if year != c.year || ok != c.ok {
			t.Errorf("YearFromStem(%q) = (%d, %v), want (%d, %v)",
				c.stem, year, ok, c.year, c.ok)
		}
	}
}
