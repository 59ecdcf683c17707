// Package input implements the 16 key input latch of the virtual machine.
package input

import "fmt"

// KeyCount is the number of logical keys.
const KeyCount = 16

// Key is a logical key of the hexadecimal keypad, 0x0-0xF.
type Key uint8

// String returns the hexadecimal digit of the key.
func (k Key) String() string {
	return fmt.Sprintf("%X", uint8(k))
}

// Valid returns whether the key is part of the keypad.
func (k Key) Valid() bool {
	return k < KeyCount
}

// Keypad is a live level-state latch of all keys. It does not queue or
// debounce events.
type Keypad struct {
	keys [KeyCount]bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Press marks the key as pressed. Invalid keys are ignored.
func (k *Keypad) Press(key Key) {
	if key.Valid() {
		k.keys[key] = true
	}
}

// Release marks the key as released. Invalid keys are ignored.
func (k *Keypad) Release(key Key) {
	if key.Valid() {
		k.keys[key] = false
	}
}

// ReleaseAll releases all keys.
func (k *Keypad) ReleaseAll() {
	k.keys = [KeyCount]bool{}
}

// IsPressed returns whether the key is pressed. Invalid keys are never pressed.
func (k *Keypad) IsPressed(key Key) bool {
	return key.Valid() && k.keys[key]
}

// FirstPressed returns the lowest pressed key.
func (k *Keypad) FirstPressed() (Key, bool) {
	for i, pressed := range k.keys {
		if pressed {
			return Key(i), true
		}
	}
	return 0, false
}
