package websocket

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// должен быть меньше pongWait
	pingPeriod = pongWait * 9 / 10

	// клиент ничего не шлет, кроме control frames
	maxMessageSize = 512

	sendBuffer = 64
)

// Client - одно подключение браузера к потоку здоровья
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	send   chan Message
	logger *logger.Logger
}

// NewClient создает нового WebSocket клиента
func NewClient(hub *Hub, conn *websocket.Conn, log *logger.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan Message, sendBuffer),
		logger: log.With("ws_client", id, "remote_addr", conn.RemoteAddr().String()),
	}
}

func (c *Client) ID() string { return c.id }

// ReadPump держит read deadline через pong; завершение отписывает клиента от hub
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Debug("WebSocket set read deadline failed", "error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read failed", "error", err)
			}
			return
		}
	}
}

// WritePump пишет сообщения hub и ping; закрытый send означает остановку hub
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Debug("WebSocket write failed", "error", err, "type", message.Type)
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

// close вызывается обоими pumps; повторное закрытие безопасно
func (c *Client) close() {
	if err := c.conn.Close(); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.logger.Debug("WebSocket close", "error", err)
	}
}
