package server

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeusync/kinetic/internal/core/systems/physics"
)

// Frame types sent to clients as binary msgpack messages.
const (
	FrameWelcome = "welcome"
	FrameState   = "state"
	FrameGoal    = "goal"
)

// Frame is the server to client envelope.
type Frame struct {
	Type     string            `msgpack:"type"`
	Client   string            `msgpack:"client,omitempty"`
	Side     string            `msgpack:"side,omitempty"`
	Score    [2]int            `msgpack:"score"`
	Snapshot *physics.Snapshot `msgpack:"snapshot,omitempty"`
}

func encodeFrame(f Frame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

// DecodeFrame parses a binary frame and verifies any snapshot it carries.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	if f.Snapshot != nil {
		if err := f.Snapshot.Verify(); err != nil {
			return Frame{}, err
		}
	}
	return f, nil
}

// Client to server message types, sent as JSON text messages.
const (
	MessageInput = "input"
)

// ClientMessage is the client to server envelope.
type ClientMessage struct {
	Type string  `json:"type"`
	Axis float64 `json:"axis"`
}

// Room inbox commands. Only the room goroutine touches game state; readers
// talk to it through these.
type (
	join struct {
		client *client
		side   string
		reply  chan<- joinResult
	}

	joinResult struct {
		side string
		err  error
	}

	input struct {
		clientID string
		axis     float64
	}

	leave struct {
		clientID string
	}

	statsRequest struct {
		reply chan<- Stats
	}
)

// Stats is a point-in-time view of the room.
type Stats struct {
	Clients  int     `json:"clients"`
	Ticks    uint64  `json:"ticks"`
	Elapsed  float64 `json:"elapsed"`
	Score    [2]int  `json:"score"`
	Left     string  `json:"left,omitempty"`
	Right    string  `json:"right,omitempty"`
	Checksum uint64  `json:"checksum"`
}
