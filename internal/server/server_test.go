package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/network"
	"cognitive-sim/internal/storage"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/dungeon"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sim := engine.New(engine.Options{
		Seed:         3,
		Strict:       true,
		PlayerVision: 8,
		Dungeon:      dungeon.Params{Width: 40, Height: 25, MaxRooms: 8, MonstersPerRoom: 1},
	})
	hub := network.NewBroadcaster()
	inst := engine.NewInstance("test", sim, hub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = inst.Run(ctx) }()

	saves, err := storage.NewSaveService(t.TempDir())
	require.NoError(t, err)

	srv := New(inst, hub, "0")
	srv.Saves = saves
	srv.Metrics = true

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestHealthAndVersion(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Contains(t, info, "calculated")

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDebugWorld(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/debug/world")
	require.NoError(t, err)
	defer resp.Body.Close()

	var summary WorldSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.Depth)
	assert.Equal(t, "AWAITING_INPUT", summary.State)
	assert.Equal(t, "ok", summary.Invariant)
	assert.Positive(t, summary.EntityCount)
}

func TestDebugSave(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/debug/save")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/debug/save", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasSuffix(out["path"], ".cdsv"))
}

func TestWebSocketSession(t *testing.T) {
	srv, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	// Первый снимок приходит в ответ на INIT.
	var first api.ServerResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "UPDATE", first.Type)
	assert.NotEmpty(t, first.MyEntityID)
	assert.Equal(t, 1, srv.Hub.SubscriberCount())

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "WAIT"}))
	// Снимок после INIT мог прийти раньше; ждём ответ на ход.
	var next api.ServerResponse
	for next.Tick == 0 {
		require.NoError(t, conn.ReadJSON(&next))
	}
	assert.Equal(t, uint64(2), next.Tick)
}
