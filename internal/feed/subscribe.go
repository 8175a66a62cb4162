package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/todolist/internal/logging"
)

// Handler receives decoded events in arrival order
type Handler func(Event)

// Subscribe connects to a change feed and calls fn for each event until ctx
// is done or the server closes the connection. A canceled ctx is not an error.
func Subscribe(ctx context.Context, url string, fn Handler) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to feed %s: HTTP %d: %w", url, resp.StatusCode, err)
		}
		return fmt.Errorf("failed to connect to feed %s: %w", url, err)
	}
	defer func() { _ = conn.Close() }()

	logging.Info("Connected to change feed", zap.String("url", url))

	// Closing the connection unblocks ReadMessage on cancel
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline())
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				logging.Info("Change feed closed by server",
					zap.Int("code", closeErr.Code),
					zap.String("reason", closeErr.Text),
				)
				return nil
			}
			return fmt.Errorf("feed read failed: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		event, err := DecodeEvent(data)
		if err != nil {
			logging.Warn("Ignoring malformed feed message", zap.Error(err))
			continue
		}

		logging.Debug("Feed event", zap.String("event", event.String()))
		fn(event)
	}
}

// IsUnavailable reports whether err means the server does not offer a feed
func IsUnavailable(err error) bool {
	return errors.Is(err, websocket.ErrBadHandshake)
}

// deadline bounds the close handshake on cancel
func deadline() time.Time {
	return time.Now().Add(time.Second)
}
