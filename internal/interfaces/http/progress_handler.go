package http

import (
	"encoding/json"

	"github.com/coursetrail/coursetrail/internal/completion"
	"github.com/coursetrail/coursetrail/internal/infrastructure/auth"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// ProgressHandler pushes completion events of the authenticated user over a
// websocket, so open course pages can update their continue button without
// polling
type ProgressHandler struct {
	feed    *completion.Feed
	jwtUtil *auth.JWTUtil
}

func NewProgressHandler(Feed *completion.Feed, JWTUtil *auth.JWTUtil) *ProgressHandler {
	return &ProgressHandler{Feed, JWTUtil}
}

// HandleProgressStream stream handler to be wrapped by Websocket.WithHeartbeat
func (ph *ProgressHandler) HandleProgressStream(c echo.Context, conn *websocket.Conn) error {
	claims := ph.jwtUtil.GetContextToken(c)

	events, cancel := ph.feed.Subscribe(claims.UID)
	defer cancel()

	// drain the client side: gorilla only processes control frames during
	// reads, and a read error is the first sign of a disconnect. Cancelling
	// the subscription closes the events channel and unblocks the loop below.
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				readErr <- err
				cancel()
				return
			}
		}
	}()

	for record := range events {
		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return err
		}
	}
	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}
