package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// liveEventBuffer bounds how many undelivered events the stream holds before
// the read loop blocks.
const liveEventBuffer = 16

// LiveStream follows a live thread's websocket and delivers decoded events
// on a channel. The stream ends when the context is canceled, the socket
// closes, or a complete frame arrives.
type LiveStream struct {
	conn   *websocket.Conn
	parser *Parser
	events chan *types.LiveEvent
	done   chan struct{}
	logger *slog.Logger
}

// liveFrame is the wire shape of a live thread websocket message.
type liveFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DialLiveThread connects to a live thread's websocket URL and starts the
// read loop.
func DialLiveThread(ctx context.Context, wsURL, userAgent string, logger *slog.Logger) (*LiveStream, error) {
	header := http.Header{}
	header.Set("User-Agent", userAgent)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("handshake rejected with status %d: %w", resp.StatusCode, err)
		}
		return nil, &pkgerrs.RequestError{Operation: "dial live thread", URL: wsURL, Err: err}
	}

	s := &LiveStream{
		conn:   conn,
		parser: NewParser(),
		events: make(chan *types.LiveEvent, liveEventBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}

	// Closing the connection is the only way to unblock a pending read.
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-s.done:
		}
	}()

	go s.readLoop(ctx)

	return s, nil
}

// Events returns the channel events are delivered on. The channel is closed
// when the stream ends.
func (s *LiveStream) Events() <-chan *types.LiveEvent {
	return s.events
}

// Close tears down the websocket connection, ending the stream.
func (s *LiveStream) Close() error {
	return s.conn.Close()
}

func (s *LiveStream) readLoop(ctx context.Context) {
	defer close(s.events)
	defer close(s.done)
	defer s.conn.Close()

	for {
		var frame liveFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if s.logger != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live stream read ended", "err", err)
			}
			return
		}

		event, err := s.decodeFrame(&frame)
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("skipping undecodable live frame", "type", frame.Type, "err", err)
			}
			continue
		}

		select {
		case s.events <- event:
		case <-ctx.Done():
			return
		}

		if event.Type == types.LiveEventComplete {
			return
		}
	}
}

// decodeFrame maps a websocket frame onto a LiveEvent. Update frames carry a
// Thing of kind LiveUpdate in the payload; other frame types keep their
// payload raw.
func (s *LiveStream) decodeFrame(frame *liveFrame) (*types.LiveEvent, error) {
	event := &types.LiveEvent{
		Type:    types.LiveEventType(frame.Type),
		Payload: frame.Payload,
	}

	if event.Type == types.LiveEventUpdate {
		var thing types.Thing
		if err := json.Unmarshal(frame.Payload, &thing); err != nil {
			return nil, decodeError("decodeFrame", frame.Payload, err)
		}
		update, err := s.parser.ParseLiveUpdate(&thing)
		if err != nil {
			return nil, err
		}
		event.Update = update
	}

	return event, nil
}
