// Package smartcube mirrors a physical GoCube onto the puzzle. It parses the
// cube's BLE notification frames and turns rotation reports into moves.
package smartcube

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// GoCube BLE service and characteristic UUIDs.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // write
)

// Message types.
const (
	MsgTypeRotation     byte = 0x01
	MsgTypeState        byte = 0x02
	MsgTypeOrientation  byte = 0x03
	MsgTypeBattery      byte = 0x05
	MsgTypeOfflineStats byte = 0x07
	MsgTypeCubeType     byte = 0x08
)

// Commands written to the RX characteristic.
const (
	CmdRequestBattery       byte = 0x32
	CmdRequestState         byte = 0x33
	CmdResetSolved          byte = 0x35
	CmdDisableOrientation   byte = 0x37
	CmdEnableOrientation    byte = 0x38
	CmdFlashBacklight       byte = 0x41
	CmdCalibrateOrientation byte = 0x57
)

// Frame bytes.
const (
	FramePrefix  byte = 0x2A
	FrameSuffix1 byte = 0x0D
	FrameSuffix2 byte = 0x0A
)

var (
	ErrInvalidPrefix   = errors.New("smartcube: invalid message prefix")
	ErrInvalidSuffix   = errors.New("smartcube: invalid message suffix")
	ErrInvalidChecksum = errors.New("smartcube: invalid checksum")
	ErrMessageTooShort = errors.New("smartcube: message too short")
	ErrInvalidLength   = errors.New("smartcube: invalid message length")
)

// Message is a parsed notification.
type Message struct {
	Type      byte
	Payload   []byte
	RawBase64 string
}

// ParseMessage parses a raw notification.
// Frame format: [0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A], where
// length counts the bytes from type through the suffix.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) < 5 {
		return nil, ErrMessageTooShort
	}
	if data[0] != FramePrefix {
		return nil, ErrInvalidPrefix
	}

	length := int(data[1])
	expectedLen := 2 + length
	if len(data) < expectedLen {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidLength, expectedLen, len(data))
	}

	checksumIdx := length - 1
	if checksumIdx < 3 {
		return nil, ErrMessageTooShort
	}
	if data[checksumIdx+1] != FrameSuffix1 || data[checksumIdx+2] != FrameSuffix2 {
		return nil, ErrInvalidSuffix
	}

	var checksum byte
	for i := 0; i < checksumIdx; i++ {
		checksum += data[i]
	}
	if checksum != data[checksumIdx] {
		return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrInvalidChecksum, data[checksumIdx], checksum)
	}

	return &Message{
		Type:      data[2],
		Payload:   data[3:checksumIdx],
		RawBase64: base64.StdEncoding.EncodeToString(data[:expectedLen]),
	}, nil
}

// BuildCommand frames a command with no payload.
func BuildCommand(cmd byte) []byte {
	length := byte(0x01)
	checksum := FramePrefix + length + cmd
	return []byte{FramePrefix, length, cmd, checksum, FrameSuffix1, FrameSuffix2}
}

// MessageTypeName returns a readable name for a message type.
func MessageTypeName(t byte) string {
	switch t {
	case MsgTypeRotation:
		return "rotation"
	case MsgTypeState:
		return "state"
	case MsgTypeOrientation:
		return "orientation"
	case MsgTypeBattery:
		return "battery"
	case MsgTypeOfflineStats:
		return "offline_stats"
	case MsgTypeCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", t)
	}
}
