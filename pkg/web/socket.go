package web

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/chazu/foldnet/pkg/progress"
	"github.com/chazu/foldnet/pkg/shape"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = 40 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// foldMessage is what the client sends. Exactly one field is expected;
// when several are set the action wins over progress, which wins over
// delta.
type foldMessage struct {
	Delta    *float64 `json:"delta,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
	Action   string   `json:"action,omitempty"` // flat, folded, reset
}

type foldClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *foldClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[web] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[web] ws write ping error: %v", err)
				return
			}
		}
	}
}

// apply updates acc from one client message and reports whether the
// progress changed.
func apply(acc *progress.Accumulator, m foldMessage) (bool, error) {
	switch {
	case m.Action != "":
		switch m.Action {
		case "flat", "reset":
			_, changed := acc.Set(0)
			if m.Action == "reset" {
				acc.Reset()
			}
			return changed, nil
		case "folded":
			_, changed := acc.Set(1)
			return changed, nil
		}
		return false, errors.Wrapf(errBadParam, "action %q", m.Action)
	case m.Progress != nil:
		_, changed := acc.Set(*m.Progress)
		return changed, nil
	case m.Delta != nil:
		_, changed := acc.Scroll(*m.Delta)
		return changed, nil
	}
	return false, errors.Wrapf(errBadParam, "empty message")
}

// HandlerFoldSocket upgrades to a websocket, pushes the initial frame and
// then one frame per message that changes the progress.
func (s *Server) HandlerFoldSocket(w http.ResponseWriter, r *http.Request) {
	req, err := s.request(r)
	if err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "ws"))
		return
	}
	if r.URL.Query().Get("progress") == "" {
		req.Progress = 0
	}
	if err := req.Dimensions.Validate(req.Family); err != nil {
		writeError(w, statusOf(err), errors.Wrapf(err, "ws"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	c := &foldClient{conn: conn, send: make(chan []byte, 32)}
	go c.writePump()
	defer close(c.send)

	acc := progress.New(s.cfg.Sensitivity)
	acc.Set(req.Progress)

	push := func() bool {
		req.Progress = acc.Value()
		fr, err := shape.Evaluate(req)
		if err != nil {
			log.Printf("[web] ws frame error: %v", err)
			return false
		}
		data, err := json.Marshal(fr)
		if err != nil {
			log.Printf("[web] ws marshal error: %v", err)
			return false
		}
		select {
		case c.send <- data:
		default:
			log.Printf("[web] ws client is slow, dropping frame at %.3f", req.Progress)
		}
		return true
	}
	if !push() {
		return
	}

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var m foldMessage
		if err := conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[web] ws read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		changed, err := apply(acc, m)
		if err != nil {
			log.Printf("[web] ws: %v", err)
			continue
		}
		if changed && !push() {
			return
		}
	}
}
