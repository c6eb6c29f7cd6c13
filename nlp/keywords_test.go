package nlp

import (
	"reflect"
	"testing"
)

func TestKeywordsPipeline(t *testing.T) {
	got := Keywords("The plants are making glucose, and the plants store energy!")
	want := []string{"plant", "making", "glucose", "store", "energy"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keywords: %v, want %v", got, want)
	}
}

func TestKeywordsCollapsesDuplicates(t *testing.T) {
	got := Keywords("cells cell Cells")
	if !reflect.DeepEqual(got, []string{"cell"}) {
		t.Fatalf("duplicates not collapsed: %v", got)
	}
}

func TestKeywordsEmptyInput(t *testing.T) {
	if got := Keywords("   "); len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}

func TestLemmatizeConservative(t *testing.T) {
	cases := map[string]string{
		"photosynthesis": "photosynthesis",
		"glucose":        "glucose",
		"plants":         "plant",
		"studies":        "study",
		"running":        "runn",
		"walked":         "walk",
		"glass":          "glass",
		"bus":            "bus",
	}
	for in, want := range cases {
		if got := Lemmatize(in); got != want {
			t.Fatalf("Lemmatize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  The CELL's wall, (strong)!  ")
	if got != "the cell s wall strong" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestJaccardSimilarity(t *testing.T) {
	if got := JaccardSimilarity("cat dog", "cat dog"); got != 1 {
		t.Fatalf("identical texts should score 1, got %f", got)
	}
	if got := JaccardSimilarity("cat dog", "bird fish"); got != 0 {
		t.Fatalf("disjoint texts should score 0, got %f", got)
	}
	if got := JaccardSimilarity("cat dog", "dog bird"); got != 1.0/3.0 {
		t.Fatalf("unexpected overlap score: %f", got)
	}
	if got := JaccardSimilarity("", ""); got != 1 {
		t.Fatalf("two empty texts should score 1, got %f", got)
	}
}

func TestTextStatistics(t *testing.T) {
	stats := TextStatistics("First sentence. Second one! Third?")
	if stats.Sentences != 3 {
		t.Fatalf("expected 3 sentences, got %d", stats.Sentences)
	}
	if stats.Words != 5 {
		t.Fatalf("expected 5 words, got %d", stats.Words)
	}
	if TextStatistics("").Words != 0 {
		t.Fatalf("empty text should have zero stats")
	}
	if got := TextStatistics("no terminal punctuation").Sentences; got != 1 {
		t.Fatalf("unterminated text should count one sentence, got %d", got)
	}
}
