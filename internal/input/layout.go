package input

// Layout maps the canonical 4×4 block of host keys to the keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
//
// Frontends translate their host key codes by position in this table.
var Layout = [KeyCount]struct {
	Host rune
	Key  Key
}{
	{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xC},
	{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xD},
	{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xE},
	{'z', 0xA}, {'x', 0x0}, {'c', 0xB}, {'v', 0xF},
}

var hostKeys = buildHostKeys()

func buildHostKeys() map[rune]Key {
	m := make(map[rune]Key, 2*KeyCount)
	for _, entry := range Layout {
		m[entry.Host] = entry.Key
		if entry.Host >= 'a' && entry.Host <= 'z' {
			m[entry.Host-'a'+'A'] = entry.Key
		}
	}
	return m
}

// KeyForRune returns the keypad key for a host character of the layout,
// letters match case-insensitively.
func KeyForRune(r rune) (Key, bool) {
	key, ok := hostKeys[r]
	return key, ok
}
