package identify

import "testing"

func TestSimilarity_IdentityAndBounds(t *testing.T) {
	inputs := []string{"hello world", "one", "A B C D", "café com leite"}
	for _, s := range inputs {
		if got := Similarity(s, s); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %f, want 1.0", s, s, got)
		}
	}

	pairs := [][2]string{
		{"hello world", "world peace"},
		{"a b c", "c d e"},
		{"one two", "three four"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %f, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "world"},
		{"bohemian rhapsody", "rhapsody in blue"},
		{"", "something"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity not symmetric for (%q, %q): %f vs %f", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Values(t *testing.T) {
	if got := Similarity("hello world", "hello there"); got != 1.0/3.0 {
		t.Errorf("expected 1/3, got %f", got)
	}
	if got := Similarity("one two", "three four"); got != 0 {
		t.Errorf("expected 0 for disjoint sets, got %f", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Errorf("expected 0 for empty inputs, got %f", got)
	}
	// Case-insensitive and accent-folded.
	if got := Similarity("CAFÉ Tacvba", "cafe tacvba"); got != 1.0 {
		t.Errorf("expected 1.0 for case/accent variants, got %f", got)
	}
}
