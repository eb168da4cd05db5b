package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 5 * time.Second

// streamEvents - upgrades to a websocket and forwards the chat's views until either side leaves.
func (that *handlers) streamEvents(w http.ResponseWriter, r *http.Request) {
	chatID, err := intParam(r, "chatID")
	if err != nil {
		that.writeError(w, err)
		return
	}

	log := that.logger.With("method", "streamEvents", "chatID", chatID)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			log.Debug("failed to close websocket", "error", closeErr)
		}
	}()

	// the client only listens; reading handles its close frames
	ctx, cancel := context.WithCancel(ws.CloseRead(r.Context()))
	defer cancel()

	views, err := that.events.Stream(ctx, chatID)
	if err != nil {
		log.Error("failed to subscribe to chat", "error", err)
		return
	}

	log.Debug("event stream opened")

	for view := range views {
		payload, err := json.Marshal(view)
		if err != nil {
			log.Error("failed to marshal view", "error", err)
			continue
		}

		writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
		err = ws.Write(writeCtx, websocket.MessageText, payload)
		cancelWrite()

		if err != nil {
			log.Debug("event stream closed", "error", err)
			return
		}
	}
}
