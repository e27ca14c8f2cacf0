package game

import (
	"math/rand/v2"
	"strings"
)

type Genre string

const (
	GenreFood   Genre = "Food"
	GenreAnimal Genre = "Animal"
	GenrePlace  Genre = "Place"
	GenreObject Genre = "Object"
	GenreCustom Genre = "Custom"
)

var genreLabels = map[Genre]string{
	GenreFood:   "食べ物",
	GenreAnimal: "動物",
	GenrePlace:  "場所",
	GenreObject: "物",
}

// randomGenres is drawn from when a custom room has no label of its own.
var randomGenres = []string{
	"フルーツ", "スポーツ", "都道府県", "お菓子", "ジュース", "麺類",
	"料理", "文房具", "家具", "色", "乗り物",
}

// Genres lists every selectable genre in display order.
func Genres() []Genre {
	return []Genre{GenreFood, GenreAnimal, GenrePlace, GenreObject, GenreCustom}
}

// ParseGenre accepts the English genre names case-insensitively. An empty
// value means Custom.
func ParseGenre(raw string) (Genre, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return GenreCustom, nil
	}
	for _, g := range Genres() {
		if strings.EqualFold(string(g), trimmed) {
			return g, nil
		}
	}
	return "", invalidConfig("ジャンルが不正です: " + trimmed)
}

// Label is the Japanese display name, or the custom label for Custom.
func (g Genre) Label(custom string) string {
	if label, ok := genreLabels[g]; ok {
		return label
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom
	}
	return "おまかせ"
}

func resolveGenre(g Genre, custom string, rng *rand.Rand) string {
	if label, ok := genreLabels[g]; ok {
		return label
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom
	}
	return randomGenres[rng.IntN(len(randomGenres))]
}
