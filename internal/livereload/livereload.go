// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package livereload implements the watch-mode reload channel: a
// small websocket hub that notifies connected browser tabs after each
// rebuild, grounded on astrophena-site's Serve/watch loop adapted
// from a single full-page poll into a push channel.
package livereload

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the wire shape sent to every connected client.
type Message struct {
	Type string `json:"type"` // "start" or "reload"
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks connected websocket clients and broadcasts reload
// notifications to all of them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the connection and registers it until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	_ = conn.WriteJSON(Message{Type: "start"})

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain and discard; clients never send anything meaningful, but
	// reading keeps the connection's close frame handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast notifies every connected client that a rebuild finished.
// Connections that error are dropped.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(Message{Type: "reload"}); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Script is the client-side snippet served at
// "/__weft/livereload.js" when a build runs live; it
// reconnects on drop so a server restart doesn't strand the page.
const Script = `(function() {
  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/__weft/ws");
    ws.onmessage = function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "reload") location.reload();
    };
    ws.onclose = function() { setTimeout(connect, 1000); };
  }
  connect();
})();`

// ServeScript writes Script with the appropriate content type.
func ServeScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(Script))
}
