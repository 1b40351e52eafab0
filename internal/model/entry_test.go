package model

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Happy":      "happy",
		"  HAPPY  ":  "happy",
		"\thappy\n":  "happy",
		"":           "",
		"  ":         "",
		"two words ": "two words",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitExamples(t *testing.T) {
	got := SplitExamples("  She felt happy. \n\n He is happy too.\n   \n")
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d: %v", len(got), got)
	}
	if got[0] != "She felt happy." || got[1] != "He is happy too." {
		t.Errorf("unexpected examples: %v", got)
	}
}

func TestSplitExamplesAllBlank(t *testing.T) {
	if got := SplitExamples("  \n \n"); got != nil {
		t.Errorf("expected nil for all-blank input, got %v", got)
	}
}
