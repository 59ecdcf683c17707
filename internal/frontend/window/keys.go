//go:build !headless

package window

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/xipe/internal/input"
)

type keyMapping struct {
	host ebiten.Key
	key  input.Key
}

var hostKeys = map[rune]ebiten.Key{
	'1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2, '3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// keyMap is the keypad layout translated to ebiten keys.
var keyMap = buildKeyMap()

func buildKeyMap() []keyMapping {
	mappings := make([]keyMapping, 0, len(input.Layout))
	for _, entry := range input.Layout {
		host, ok := hostKeys[entry.Host]
		if !ok {
			continue
		}
		mappings = append(mappings, keyMapping{host: host, key: entry.Key})
	}
	return mappings
}
