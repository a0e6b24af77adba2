package websocket

import (
	"context"
	"sync"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

// Типы сообщений для клиентов
const (
	MessageSnapshot   = "health_snapshot"
	MessageTransition = "health_transition"
)

// Hub управляет WebSocket клиентами и рассылает сообщения
// Реализует интерфейс port.NotificationService
type Hub struct {
	clients map[*Client]bool

	// Канал для broadcast сообщений
	broadcast chan Message

	register   chan *Client
	unregister chan *Client

	// закрывается, когда Run завершился; после этого Register/Unregister не блокируются
	done chan struct{}

	// Последний снимок отправляется новым клиентам сразу после подключения
	last *dto.HealthSnapshotDTO

	mu     sync.RWMutex
	logger *logger.Logger
}

// NewHub создает новый WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run запускает hub (должен быть запущен в отдельной goroutine)
// Завершается при отмене ctx, закрывая каналы всех клиентов
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.last != nil {
				client.send <- Message{Type: MessageSnapshot, Data: h.last}
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client registered", "total_clients", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", "total_clients", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			if snapshot, ok := message.Data.(*dto.HealthSnapshotDTO); ok {
				h.last = snapshot
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Канал клиента заполнен, закрываем соединение
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client channel full, disconnected")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register регистрирует нового клиента.
// Если hub уже остановлен, канал клиента закрывается и WritePump завершает соединение.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister удаляет клиента; после остановки hub ничего не делает
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastHealth отправляет снимок здоровья всем клиентам (реализация port.NotificationService)
func (h *Hub) BroadcastHealth(snapshot *dto.HealthSnapshotDTO) {
	h.enqueue(Message{Type: MessageSnapshot, Data: snapshot})
}

// BroadcastTransition сообщает клиентам о смене статуса проекта
func (h *Hub) BroadcastTransition(transition *dto.HealthTransitionDTO) {
	h.enqueue(Message{Type: MessageTransition, Data: transition})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("Broadcast channel full, dropping message", "type", message.Type)
	}
}

// ClientCount возвращает количество подключенных клиентов (реализация port.NotificationService)
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message представляет сообщение для отправки клиенту
type Message struct {
	Type string      `json:"type"` // "health_snapshot" или "health_transition"
	Data interface{} `json:"data"`
}
