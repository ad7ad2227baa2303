// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package livereload

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var start Message
	require.NoError(t, conn.ReadJSON(&start))
	require.Equal(t, "start", start.Type)

	hub.Broadcast()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reload Message
	require.NoError(t, conn.ReadJSON(&reload))
	require.Equal(t, "reload", reload.Type)
}
