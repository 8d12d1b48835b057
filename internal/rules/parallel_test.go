package rules

import (
	"testing"

	"github.com/guarzo/cardgap/internal/model"
)

func TestClassifyParallel(t *testing.T) {
	rs := Default()

	tests := []struct {
		name          string
		sport         model.Sport
		title         string
		wantExpensive bool
		wantBase      bool
		wantRejected  bool
	}{
		{
			name:          "base overrides expensive color",
			sport:         model.SportFootball,
			title:         "2024 Topps Chrome - 1974 Topps Football Ladd McConkey Pink Refractor (RC) PSA 10",
			wantExpensive: true,
			wantBase:      true,
			wantRejected:  false,
		},
		{
			name:          "plain base card",
			sport:         model.SportBasketball,
			title:         "1991-92 Skybox #535 Karl Malone PSA 10 Gem Mint USA Basketball Dream Team!",
			wantExpensive: false,
			wantBase:      false,
			wantRejected:  false,
		},
		{
			name:          "universal expensive without base",
			sport:         model.SportBasketball,
			title:         "2019 Prizm Zion Williamson Gold /10",
			wantExpensive: true,
			wantBase:      false,
			wantRejected:  true,
		},
		{
			name:          "one of one",
			sport:         model.SportFootball,
			title:         "2023 Select CJ Stroud Superfractor 1/1",
			wantExpensive: true,
			wantRejected:  true,
		},
		{
			name:          "sport premium product line",
			sport:         model.SportFootball,
			title:         "2022 National Treasures Brock Purdy RPA",
			wantExpensive: true,
			wantRejected:  true,
		},
		{
			name:          "premium list is per sport",
			sport:         model.SportBaseball,
			title:         "2022 National Treasures style design",
			wantExpensive: false,
			wantRejected:  false,
		},
		{
			name:          "pokemon premium rarity",
			sport:         model.SportPokemon,
			title:         "Umbreon VMAX Alternate Art Evolving Skies",
			wantExpensive: true,
			wantRejected:  true,
		},
		{
			name:          "pokemon base holo",
			sport:         model.SportPokemon,
			title:         "Charizard Reverse Holo Celebrations",
			wantExpensive: false,
			wantBase:      true,
			wantRejected:  false,
		},
		{
			name:          "unknown sport gets no base override",
			sport:         model.SportUnknown,
			title:         "Mystery card Pink Refractor",
			wantExpensive: true,
			wantBase:      false,
			wantRejected:  true,
		},
		{
			name:         "clean title",
			sport:        model.SportHockey,
			title:        "2023-24 Upper Deck Connor Bedard base rookie",
			wantRejected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rs.ClassifyParallel(tt.sport, tt.title)
			if got.HasExpensiveParallel != tt.wantExpensive {
				t.Errorf("HasExpensiveParallel = %v, want %v", got.HasExpensiveParallel, tt.wantExpensive)
			}
			if got.IsBaseParallel != tt.wantBase {
				t.Errorf("IsBaseParallel = %v, want %v", got.IsBaseParallel, tt.wantBase)
			}
			if got.Rejected() != tt.wantRejected {
				t.Errorf("Rejected() = %v, want %v", got.Rejected(), tt.wantRejected)
			}
		})
	}
}
