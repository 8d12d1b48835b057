package rules

import "github.com/guarzo/cardgap/internal/model"

// Production rule tables. Keyword lists are data, not architecture: they are
// curated from observed listing titles and will drift as products release.
// The ceiling table and its multipliers are empirically tuned against real
// sold-price distributions; downstream averages depend on these exact
// values, so changes here are policy decisions.

func defaultConfig() Config {
	return Config{
		Sports: []SportKeywords{
			{Sport: model.SportBasketball, Keywords: []string{
				"basketball", "nba", "wnba",
				"lebron", "jordan", "curry", "kobe", "giannis", "doncic",
				"wembanyama", "durant", "tatum", "morant", "malone", "caitlin clark",
				"lakers", "celtics", "bulls", "warriors", "knicks", "hoops",
			}},
			{Sport: model.SportFootball, Keywords: []string{
				"football", "nfl",
				"mahomes", "brady", "burrow", "herbert", "stroud", "mcconkey",
				"jefferson", "ja'marr", "manning", "rodgers", "purdy", "jayden daniels",
				"chiefs", "cowboys", "packers", "steelers", "49ers", "eagles", "bills",
			}},
			{Sport: model.SportBaseball, Keywords: []string{
				"baseball", "mlb",
				"ohtani", "trout", "aaron judge", "acuna", "soto", "jeter",
				"griffey", "mantle", "skenes", "elly de la cruz",
				"yankees", "dodgers", "braves", "mets", "bowman",
			}},
			{Sport: model.SportHockey, Keywords: []string{
				"hockey", "nhl",
				"gretzky", "mcdavid", "crosby", "ovechkin", "bedard", "matthews",
				"maple leafs", "canadiens", "bruins", "oilers", "young guns",
			}},
			{Sport: model.SportSoccer, Keywords: []string{
				"soccer", "fifa", "uefa", "premier league",
				"messi", "ronaldo", "mbappe", "haaland", "bellingham", "yamal",
				"pele", "maradona",
				"barcelona", "real madrid", "manchester united",
			}},
			{Sport: model.SportWrestling, Keywords: []string{
				"wrestling", "wwe", "wwf", "aew",
				"hulk hogan", "undertaker", "john cena", "ric flair",
				"stone cold", "roman reigns", "rhea ripley",
			}},
			{Sport: model.SportPokemon, Keywords: []string{
				"pokemon", "pokémon",
				"pikachu", "charizard", "mewtwo", "eevee", "gengar", "umbreon",
				"rayquaza", "trainer gallery",
			}},
		},

		UniversalExpensive: []string{
			"black", "gold", "red", "blue", "green", "purple", "orange", "pink",
			"bronze", "emerald", "sapphire", "ruby", "rainbow",
			"superfractor", "1/1", "one of one", "ssp", "case hit",
			"cracked ice", "mojo", "shimmer", "neon", "tiger", "snakeskin",
			"camo", "disco", "nebula", "galaxy",
		},

		UniversalPremium: []string{
			"fast break", "choice", "dragon", "hyper",
			"kaboom", "downtown", "color blast", "logoman",
		},

		SportPremium: map[model.Sport][]string{
			model.SportFootball: {
				"playoff", "flawless", "immaculate", "spectra", "obsidian",
				"limited", "national treasures",
			},
			model.SportBasketball: {
				"court kings", "noir", "opulence", "flawless",
				"national treasures", "crown royale",
			},
			model.SportBaseball: {
				"dynasty", "definitive", "tribute", "museum collection",
				"five star",
			},
			model.SportHockey: {
				"the cup", "ultimate collection", "ice premieres",
			},
			model.SportSoccer: {
				"obsidian", "eminence", "immaculate",
			},
			model.SportWrestling: {
				"undisputed", "fully loaded",
			},
			model.SportPokemon: {
				"secret rare", "vmax", "vstar", "full art", "alt art",
				"alternate art", "rainbow rare", "gold star", "shadowless",
				"1st edition", "illustration rare", "special art",
			},
		},

		SportBase: map[model.Sport][]string{
			model.SportFootball: {
				"pink refractor", "starcade", "silver prizm",
				"pink ice", "red ice", "blue ice", "ice prizm",
				"pink lazer", "red lazer", "blue lazer", "lazer prizm",
				"pink holo", "silver holo", "holo prizm",
			},
			model.SportBasketball: {
				"silver prizm", "red white and blue", "pink ice", "blue ice",
				"red ice", "green pulsar", "holo prizm", "hyper prizm",
			},
			model.SportBaseball: {
				"pink refractor", "blue refractor", "purple refractor",
				"rainbow foil", "royal blue", "gold foil",
			},
			model.SportHockey: {
				"young guns", "blue ice", "exclusives",
			},
			model.SportSoccer: {
				"silver prizm", "pink lazer", "ice prizm", "holo prizm",
			},
			model.SportWrestling: {
				"silver prizm", "holo prizm",
			},
			model.SportPokemon: {
				"reverse holo", "holofoil", "cosmos holo", "holo rare",
			},
		},

		Ceilings: map[model.Sport]float64{
			model.SportBasketball: 15000,
			model.SportFootball:   12000,
			model.SportBaseball:   25000,
			model.SportHockey:     8000,
			model.SportSoccer:     10000,
			model.SportPokemon:    15000,
		},
		DefaultCeiling: 10000,
	}
}
