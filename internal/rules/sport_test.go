package rules

import (
	"testing"

	"github.com/guarzo/cardgap/internal/model"
)

func TestDetectSport(t *testing.T) {
	rs := Default()

	tests := []struct {
		name  string
		title string
		want  model.Sport
	}{
		{
			name:  "explicit sport word",
			title: "2024 Topps Chrome - 1974 Topps Football Ladd McConkey Pink Refractor (RC) PSA 10",
			want:  model.SportFootball,
		},
		{
			name:  "basketball via sport word",
			title: "1991-92 Skybox #535 Karl Malone PSA 10 Gem Mint USA Basketball Dream Team!",
			want:  model.SportBasketball,
		},
		{
			name:  "player surname only",
			title: "2023 Prizm Victor Wembanyama Rookie Silver",
			want:  model.SportBasketball,
		},
		{
			name:  "football quarterback",
			title: "2017 Panini Prizm Patrick Mahomes RC #269",
			want:  model.SportFootball,
		},
		{
			name:  "baseball via player",
			title: "2018 Topps Update Shohei Ohtani RC US1",
			want:  model.SportBaseball,
		},
		{
			name:  "hockey via young guns",
			title: "2023-24 Upper Deck Young Guns Connor Bedard RC",
			want:  model.SportHockey,
		},
		{
			name:  "soccer via player",
			title: "2004 Panini Mega Cracks Lionel Messi Rookie",
			want:  model.SportSoccer,
		},
		{
			name:  "wrestling via promotion",
			title: "2022 Panini Prizm WWE Roman Reigns",
			want:  model.SportWrestling,
		},
		{
			name:  "pokemon",
			title: "1999 Pokemon Base Set Charizard Holo 4/102",
			want:  model.SportPokemon,
		},
		{
			name:  "no keywords",
			title: "2021 Garbage Pail Kids Adam Bomb",
			want:  model.SportUnknown,
		},
		{
			name:  "empty title",
			title: "",
			want:  model.SportUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.DetectSport(tt.title); got != tt.want {
				t.Errorf("DetectSport(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

// Basketball is checked before soccer, so crossover terms resolve toward
// North American card convention.
func TestDetectSportPriorityOrder(t *testing.T) {
	rs := Default()

	// "jordan" (basketball list) beats "soccer".
	got := rs.DetectSport("Michael Jordan soccer promo card")
	if got != model.SportBasketball {
		t.Errorf("expected basketball to win priority, got %q", got)
	}
}

func TestDetectSportReducedRuleSet(t *testing.T) {
	rs := New(Config{
		Sports: []SportKeywords{
			{Sport: model.SportHockey, Keywords: []string{"puck"}},
		},
		DefaultCeiling: 100,
	})

	if got := rs.DetectSport("Vintage puck card"); got != model.SportHockey {
		t.Errorf("got %q, want hockey", got)
	}
	if got := rs.DetectSport("2017 Prizm Patrick Mahomes"); got != model.SportUnknown {
		t.Errorf("reduced rule set should not know football, got %q", got)
	}
}
