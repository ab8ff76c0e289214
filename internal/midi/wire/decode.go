// Package wire turns raw MIDI bytes into contracts.MIDI messages.
package wire

import "github.com/leandrodaf/midikeys/sdk/contracts"

const (
	statusMask  = 0xF0
	channelMask = 0x0F
	statusBit   = 0x80
	sysExStart  = 0xF0
	sysExEnd    = 0xF7
)

// DataLength returns the number of data bytes that follow a channel status byte.
func DataLength(command byte) int {
	switch command & statusMask {
	case 0xC0, 0xD0: // program change, channel pressure
		return 1
	default:
		return 2
	}
}

// Short decodes a packed short message (status + two data bytes), as handed out by winmm.
// Data bytes are kept verbatim, so a corrupted byte with the high bit set reaches the caller.
func Short(status, data1, data2 byte, timestamp uint64) contracts.MIDI {
	msg := contracts.MIDI{
		Timestamp: timestamp,
		Command:   status & statusMask,
		Channel:   status & channelMask,
		Note:      data1,
		Size:      1 + DataLength(status),
	}
	if msg.Size == 3 {
		msg.Velocity = data2
	}
	return msg
}

// Decode splits a byte stream into channel-voice messages. System messages and
// SysEx are skipped. A channel message cut short by the end of the stream or by
// the next status byte is still returned, with Size reporting how much arrived.
func Decode(data []byte, timestamp uint64) []contracts.MIDI {
	var out []contracts.MIDI

	for i := 0; i < len(data); {
		status := data[i]
		switch {
		case status&statusBit == 0:
			// stray data byte without a status, nothing to attach it to
			i++
			continue
		case status == sysExStart:
			i = skipSysEx(data, i+1)
			continue
		case status >= sysExStart:
			i += 1 + systemLength(status)
			continue
		}

		want := DataLength(status)
		payload := make([]byte, 0, want)
		j := i + 1
		for j < len(data) && len(payload) < want && data[j]&statusBit == 0 {
			payload = append(payload, data[j])
			j++
		}

		msg := contracts.MIDI{
			Timestamp: timestamp,
			Command:   status & statusMask,
			Channel:   status & channelMask,
			Size:      1 + len(payload),
		}
		if len(payload) > 0 {
			msg.Note = payload[0]
		}
		if len(payload) > 1 {
			msg.Velocity = payload[1]
		}
		out = append(out, msg)
		i = j
	}

	return out
}

func skipSysEx(data []byte, i int) int {
	for i < len(data) {
		if data[i] == sysExEnd {
			return i + 1
		}
		i++
	}
	return i
}

func systemLength(status byte) int {
	switch status {
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	default:
		return 0
	}
}
