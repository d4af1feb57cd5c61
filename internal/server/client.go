package server

import (
	"net/http"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/network"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и инстансом игры
type Client struct {
	SessionID string
	Instance  *engine.Instance
	Hub       *network.Broadcaster
	Conn      *websocket.Conn
	updates   <-chan api.ServerResponse
}

func NewClient(inst *engine.Instance, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	id := ulid.Make().String()
	return &Client{
		SessionID: id,
		Instance:  inst,
		Hub:       hub,
		Conn:      conn,
		updates:   hub.Register(id),
	}
}

func (c *Client) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "ws_client",
		"session":   c.SessionID,
	})
}

// readPump читает команды клиента и передаёт их в игровой цикл
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.SessionID)
		if err := c.Conn.Close(); err != nil {
			c.log().WithError(err).Debug("failed to close websocket connection")
		}
		c.log().Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log().WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log().WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log().Info("Client connected")
	// INIT - триггер первой отрисовки
	c.Instance.Enqueue(api.ClientCommand{Action: "INIT"})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log().WithError(err).Error("WS read error")
			}
			return
		}
		c.Instance.Enqueue(cmd)
	}
}

// writePump отправляет снимки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log().WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log().WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log().WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log().WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log().WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log().WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
