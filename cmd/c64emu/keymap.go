package main

import "github.com/veandco/go-sdl2/sdl"

// scancodeToMatrix maps a subset of PC keyboard scancodes onto the
// C64's 8x8 keyboard matrix (row, col), using the standard C64
// matrix layout. C= is on left Alt and RUN/STOP on Tab; the UK pound
// sign, '*' and '/' are left unmapped.
func scancodeToMatrix(code sdl.Scancode) (row, col uint8, ok bool) {
	switch code {
	case sdl.SCANCODE_BACKSPACE:
		return 0, 0, true // DEL
	case sdl.SCANCODE_RETURN:
		return 0, 1, true
	case sdl.SCANCODE_RIGHT, sdl.SCANCODE_LEFT:
		return 0, 2, true // cursor left/right
	case sdl.SCANCODE_F7:
		return 0, 3, true
	case sdl.SCANCODE_F1:
		return 0, 4, true
	case sdl.SCANCODE_F3:
		return 0, 5, true
	case sdl.SCANCODE_F5:
		return 0, 6, true
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_UP:
		return 0, 7, true // cursor up/down

	case sdl.SCANCODE_3:
		return 1, 0, true
	case sdl.SCANCODE_W:
		return 1, 1, true
	case sdl.SCANCODE_A:
		return 1, 2, true
	case sdl.SCANCODE_4:
		return 1, 3, true
	case sdl.SCANCODE_Z:
		return 1, 4, true
	case sdl.SCANCODE_S:
		return 1, 5, true
	case sdl.SCANCODE_E:
		return 1, 6, true
	case sdl.SCANCODE_LSHIFT:
		return 1, 7, true

	case sdl.SCANCODE_5:
		return 2, 0, true
	case sdl.SCANCODE_R:
		return 2, 1, true
	case sdl.SCANCODE_D:
		return 2, 2, true
	case sdl.SCANCODE_6:
		return 2, 3, true
	case sdl.SCANCODE_C:
		return 2, 4, true
	case sdl.SCANCODE_F:
		return 2, 5, true
	case sdl.SCANCODE_T:
		return 2, 6, true
	case sdl.SCANCODE_X:
		return 2, 7, true

	case sdl.SCANCODE_7:
		return 3, 0, true
	case sdl.SCANCODE_Y:
		return 3, 1, true
	case sdl.SCANCODE_G:
		return 3, 2, true
	case sdl.SCANCODE_8:
		return 3, 3, true
	case sdl.SCANCODE_B:
		return 3, 4, true
	case sdl.SCANCODE_H:
		return 3, 5, true
	case sdl.SCANCODE_U:
		return 3, 6, true
	case sdl.SCANCODE_V:
		return 3, 7, true

	case sdl.SCANCODE_9:
		return 4, 0, true
	case sdl.SCANCODE_I:
		return 4, 1, true
	case sdl.SCANCODE_J:
		return 4, 2, true
	case sdl.SCANCODE_0:
		return 4, 3, true
	case sdl.SCANCODE_M:
		return 4, 4, true
	case sdl.SCANCODE_K:
		return 4, 5, true
	case sdl.SCANCODE_O:
		return 4, 6, true
	case sdl.SCANCODE_N:
		return 4, 7, true

	case sdl.SCANCODE_EQUALS:
		return 5, 0, true // +
	case sdl.SCANCODE_P:
		return 5, 1, true
	case sdl.SCANCODE_L:
		return 5, 2, true
	case sdl.SCANCODE_MINUS:
		return 5, 3, true
	case sdl.SCANCODE_PERIOD:
		return 5, 4, true
	case sdl.SCANCODE_SEMICOLON:
		return 5, 5, true // :
	case sdl.SCANCODE_LEFTBRACKET:
		return 5, 6, true // @
	case sdl.SCANCODE_COMMA:
		return 5, 7, true

	case sdl.SCANCODE_SLASH:
		return 6, 2, true // ;
	case sdl.SCANCODE_HOME:
		return 6, 3, true
	case sdl.SCANCODE_RSHIFT:
		return 6, 4, true
	case sdl.SCANCODE_RIGHTBRACKET:
		return 6, 5, true // =
	case sdl.SCANCODE_BACKSLASH:
		return 6, 6, true // pi/up-arrow

	case sdl.SCANCODE_1:
		return 7, 0, true
	case sdl.SCANCODE_ESCAPE:
		return 7, 1, true // left-arrow
	case sdl.SCANCODE_LCTRL:
		return 7, 2, true
	case sdl.SCANCODE_2:
		return 7, 3, true
	case sdl.SCANCODE_SPACE:
		return 7, 4, true
	case sdl.SCANCODE_LALT:
		return 7, 5, true // C=
	case sdl.SCANCODE_Q:
		return 7, 6, true
	case sdl.SCANCODE_TAB:
		return 7, 7, true // RUN/STOP

	default:
		return 0, 0, false
	}
}
