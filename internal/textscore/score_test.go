package textscore

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"single letter", "a", 653},
		{"case insensitive", "E", 1026},
		{"space", " ", 1829},
		{"ignores punctuation", "!?.,\n", 0},
		{"word", "the cat", 752 + 498 + 1026 + 1829 + 223 + 653 + 752},
		{"non ascii", "é", 0},
		{"combining mark", "e\u0301", 1026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.input); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestScorePrefersEnglish(t *testing.T) {
	english := Score("Cooking MC's like a pound of bacon")
	noise := Score("Kyy~|{r5X\\f2|y~{5ty5t5etz")
	if english <= noise {
		t.Fatalf("expected english (%d) to outscore noise (%d)", english, noise)
	}
}

func TestScoreBytes(t *testing.T) {
	score, ok := ScoreBytes([]byte("hello world"))
	if !ok {
		t.Fatal("expected valid utf-8 to decode")
	}
	if score != Score("hello world") {
		t.Fatalf("expected %d, got %d", Score("hello world"), score)
	}

	score, ok = ScoreBytes([]byte{0xff, 0xfe, 'a'})
	if ok {
		t.Fatal("expected invalid utf-8 to fail decoding")
	}
	if score != 0 {
		t.Fatalf("expected zero score for undecodable input, got %d", score)
	}
}

func TestWeight(t *testing.T) {
	if Weight('z') != 5 {
		t.Fatalf("expected weight 5 for z, got %d", Weight('z'))
	}
	if Weight('Z') != 0 {
		t.Fatalf("expected upper-case lookups to miss, got %d", Weight('Z'))
	}
}
