// Package engine implements the rule engine of the Crunch tile-matching
// puzzle: board layout, piece placement, swap validation, chain detection,
// and the remove/compact/refill cascade.
// This package is UI-agnostic and deterministic given its random source.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-crunch/internal/dependencies/random"
)

// TileType identifies the category of a piece. The catalogue is closed:
// valid types are 1..TileTypeCount, and TileNone marks an empty cell.
type TileType uint8

const (
	TileNone TileType = iota
	TileCroissant
	TileCupcake
	TileDanish
	TileDonut
	TileMacaroon
	TileSugarCookie
)

// TileTypeCount is the size of the tile catalogue.
const TileTypeCount = 6

// MinTileTypes is the smallest catalogue a level may play with.
// Fewer than three types cannot avoid pre-made chains on a full board.
const MinTileTypes = 3

// String returns the display name of a tile type.
func (t TileType) String() string {
	switch t {
	case TileNone:
		return "None"
	case TileCroissant:
		return "Croissant"
	case TileCupcake:
		return "Cupcake"
	case TileDanish:
		return "Danish"
	case TileDonut:
		return "Donut"
	case TileMacaroon:
		return "Macaroon"
	case TileSugarCookie:
		return "SugarCookie"
	default:
		return fmt.Sprintf("TileType(%d)", uint8(t))
	}
}

// Valid reports whether t is a member of the catalogue.
func (t TileType) Valid() bool {
	return t >= TileCroissant && t <= TileSugarCookie
}

// AllTileTypes returns the full catalogue in order.
func AllTileTypes() []TileType {
	types := make([]TileType, TileTypeCount)
	for i := range TileTypeCount {
		types[i] = TileType(i + 1)
	}
	return types
}

// RandomTileType draws a type uniformly from the first n catalogue entries.
func RandomTileType(rng random.Random, n int) TileType {
	if n < 1 || n > TileTypeCount {
		n = TileTypeCount
	}
	return TileType(rng.Intn(n) + 1)
}

// ParseTileType accepts a catalogue name in any case ("donut",
// "sugar_cookie") or its number ("4").
func ParseTileType(s string) (TileType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n > 0 && n <= TileTypeCount {
			return TileType(n), nil
		}
		return TileNone, fmt.Errorf("%w: %s", ErrInvalidTileType, s)
	}

	name := strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	for _, t := range AllTileTypes() {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	return TileNone, fmt.Errorf("%w: %q", ErrInvalidTileType, s)
}
