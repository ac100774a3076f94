package smartcube

import (
	"sync"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/sirupsen/logrus"
)

// Mirror turns notification frames into puzzle moves.
type Mirror struct {
	order int
	log   logrus.FieldLogger

	mu        sync.RWMutex
	battery   int
	upFace    string
	frontFace string

	onMoves func([]notation.Move)
}

// NewMirror creates a mirror for an order x order puzzle.
func NewMirror(order int, log logrus.FieldLogger) *Mirror {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mirror{
		order:   order,
		battery: -1,
		log:     log.WithField("component", "smartcube"),
	}
}

// SetMovesCallback sets the receiver of decoded moves. It is called on the
// goroutine that delivers notifications.
func (m *Mirror) SetMovesCallback(cb func([]notation.Move)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMoves = cb
}

// Battery returns the last reported battery level, or -1.
func (m *Mirror) Battery() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.battery
}

// Orientation returns the last reported up and front faces.
func (m *Mirror) Orientation() (up, front string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upFace, m.frontFace
}

// HandleNotification parses a raw frame and dispatches it.
func (m *Mirror) HandleNotification(data []byte) error {
	msg, err := ParseMessage(data)
	if err != nil {
		m.log.WithError(err).Debug("dropping malformed frame")
		return err
	}
	return m.HandleMessage(msg)
}

// HandleMessage dispatches a parsed message.
func (m *Mirror) HandleMessage(msg *Message) error {
	switch msg.Type {
	case MsgTypeRotation:
		rotations, err := DecodeRotation(msg.Payload)
		if err != nil {
			return err
		}
		moves, err := Moves(rotations, m.order)
		if err != nil {
			return err
		}
		m.mu.RLock()
		cb := m.onMoves
		m.mu.RUnlock()
		m.log.WithField("moves", notation.FormatSequence(moves, m.order)).Debug("cube turned")
		if cb != nil && len(moves) > 0 {
			cb(moves)
		}

	case MsgTypeBattery:
		level, err := DecodeBattery(msg.Payload)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.battery = level
		m.mu.Unlock()
		m.log.WithField("battery", level).Info("battery level")

	case MsgTypeOrientation:
		o, err := DecodeOrientation(msg.Payload)
		if err != nil {
			return err
		}
		m.mu.Lock()
		changed := o.UpFace != m.upFace || o.FrontFace != m.frontFace
		m.upFace, m.frontFace = o.UpFace, o.FrontFace
		m.mu.Unlock()
		if changed {
			m.log.WithFields(logrus.Fields{"up": o.UpFace, "front": o.FrontFace}).Debug("orientation changed")
		}

	default:
		m.log.WithField("type", MessageTypeName(msg.Type)).Debug("ignoring message")
	}
	return nil
}
