package kbdlinux

import "github.com/leandrodaf/midikeys/sdk/contracts"

// Linux input event codes (linux/input-event-codes.h), in virtual-key order.
var (
	letterCodes   = [26]uint16{30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, 50, 49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44}
	digitCodes    = [10]uint16{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	numpadCodes   = [10]uint16{82, 79, 80, 81, 75, 76, 77, 71, 72, 73}
	functionCodes = [24]uint16{59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 87, 88, 183, 184, 185, 186, 187, 188, 189, 190, 191, 192, 193, 194}
)

var namedCodes = map[contracts.KeyCode]uint16{
	0x08: 14,  // back -> backspace
	0x09: 15,  // tab
	0x0D: 28,  // return -> enter
	0x10: 42,  // shift -> left shift
	0x11: 29,  // control -> left ctrl
	0x12: 56,  // menu -> left alt
	0x13: 119, // pause
	0x14: 58,  // capital -> caps lock
	0x1B: 1,   // escape
	0x20: 57,  // space
	0x21: 104, // prior -> page up
	0x22: 109, // next -> page down
	0x23: 107, // end
	0x24: 102, // home
	0x25: 105, // left
	0x26: 103, // up
	0x27: 106, // right
	0x28: 108, // down
	0x2C: 99,  // snapshot -> sysrq
	0x2D: 110, // insert
	0x2E: 111, // delete
	0x2F: 138, // help
	0x5B: 125, // left win -> left meta
	0x5C: 126, // right win -> right meta
	0x5D: 127, // apps -> compose
	0x5F: 142, // sleep
	0x6A: 55,  // multiply -> kp asterisk
	0x6B: 78,  // add -> kp plus
	0x6C: 121, // separator -> kp comma
	0x6D: 74,  // subtract -> kp minus
	0x6E: 83,  // decimal -> kp dot
	0x6F: 98,  // divide -> kp slash
	0x90: 69,  // num lock
	0x91: 70,  // scroll lock
	0xA0: 42,  // left shift
	0xA1: 54,  // right shift
	0xA2: 29,  // left control
	0xA3: 97,  // right control
	0xA4: 56,  // left menu -> left alt
	0xA5: 100, // right menu -> right alt
	0xA6: 158, // browser back
	0xA7: 159, // browser forward
	0xA8: 173, // browser refresh
	0xA9: 128, // browser stop
	0xAA: 217, // browser search
	0xAB: 156, // browser favorites -> bookmarks
	0xAC: 172, // browser home -> homepage
	0xAD: 113, // volume mute
	0xAE: 114, // volume down
	0xAF: 115, // volume up
	0xB0: 163, // next track
	0xB1: 165, // previous track
	0xB2: 166, // media stop -> stop cd
	0xB3: 164, // play/pause
	0xB4: 155, // launch mail
	0xB5: 226, // launch media select
	0xB6: 148, // launch app1 -> prog1
	0xB7: 149, // launch app2 -> prog2
	0xBA: 39,  // oem 1 -> semicolon
	0xBB: 13,  // oem plus -> equal
	0xBC: 51,  // oem comma
	0xBD: 12,  // oem minus
	0xBE: 52,  // oem period -> dot
	0xBF: 53,  // oem 2 -> slash
	0xC0: 41,  // oem 3 -> grave
	0xDB: 26,  // oem 4 -> left brace
	0xDC: 43,  // oem 5 -> backslash
	0xDD: 27,  // oem 6 -> right brace
	0xDE: 40,  // oem 7 -> apostrophe
	0xE2: 86,  // oem 102
}

// EvdevCode translates a Windows virtual-key code to a Linux key code.
func EvdevCode(vk contracts.KeyCode) (uint16, bool) {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return letterCodes[vk-'A'], true
	case vk >= '0' && vk <= '9':
		return digitCodes[vk-'0'], true
	case vk >= 0x60 && vk <= 0x69:
		return numpadCodes[vk-0x60], true
	case vk >= 0x70 && vk <= 0x87:
		return functionCodes[vk-0x70], true
	}
	code, ok := namedCodes[vk]
	return code, ok
}

// supportedCodes lists every Linux key code the virtual keyboard has to advertise.
func supportedCodes() []uint16 {
	seen := make(map[uint16]bool)
	var codes []uint16
	add := func(c uint16) {
		if !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}
	for _, c := range letterCodes {
		add(c)
	}
	for _, c := range digitCodes {
		add(c)
	}
	for _, c := range numpadCodes {
		add(c)
	}
	for _, c := range functionCodes {
		add(c)
	}
	for _, c := range namedCodes {
		add(c)
	}
	return codes
}
