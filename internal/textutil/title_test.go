package textutil

import "testing"

func TestFoldTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Game   of Thrones ", "game of thrones"},
		{"Pokémon", "pokemon"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FoldTitle(tt.in); got != tt.want {
			t.Errorf("FoldTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameTitle(t *testing.T) {
	if !SameTitle("The Office", "the  office") {
		t.Fatal("expected folded titles to match")
	}
	if SameTitle("", " ") {
		t.Fatal("empty titles must not match")
	}
	if SameTitle("The Office", "The Office (US)") {
		t.Fatal("different titles must not match")
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		atLeast float64
		below   float64
	}{
		{name: "identical", a: "Severance", b: "Severance", atLeast: 1},
		{name: "typo", a: "Breaking Bad", b: "Braking Bad", atLeast: 0.8},
		{name: "short title", a: "Up", b: "UP", atLeast: 1},
		{name: "reordered", a: "Trek: Discovery Star", b: "Star Trek Discovery", atLeast: 0.8},
		{name: "unrelated", a: "Dark", b: "The Crown", below: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleSimilarity(tt.a, tt.b)
			if tt.atLeast > 0 && got < tt.atLeast {
				t.Fatalf("TitleSimilarity(%q, %q) = %v, want >= %v", tt.a, tt.b, got, tt.atLeast)
			}
			if tt.below > 0 && got >= tt.below {
				t.Fatalf("TitleSimilarity(%q, %q) = %v, want < %v", tt.a, tt.b, got, tt.below)
			}
		})
	}
}
