package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/internal/models"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	TypePostCreated MessageType = "post_created"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// PostEvent - данные сообщения post_created
type PostEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorImage string    `json:"author_image"`
	CreatedAt   time.Time `json:"created_at"`
}

// Hub рассылает события ленты всем подключённым клиентам.
// Учёт клиентов ведётся в горутине Run.
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	imageURL func(string) string
	logger   *slog.Logger

	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewHub создает новый Hub. imageURL строит ссылку на аватар автора.
func NewHub(imageURL func(string) string, logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		imageURL:   imageURL,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		stopped:    make(chan struct{}),
	}
}

// Run запускает hub
func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Debug("feed client registered", "client_id", client.ID)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// медленный клиент
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop останавливает hub и ждёт завершения Run
func (h *Hub) Stop() {
	h.cancel()
	<-h.stopped
}

func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// PostCreated рассылает новый пост. Не блокирует обработку запроса:
// при заполненном буфере событие отбрасывается.
func (h *Hub) PostCreated(post *models.Post) {
	data, err := json.Marshal(PostEvent{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		Author:      post.Author.Username,
		AuthorImage: h.imageURL(post.Author.ImageFile),
		CreatedAt:   post.CreatedAt,
	})
	if err != nil {
		h.logger.Error("marshal post event", "error", err)
		return
	}

	msg, err := json.Marshal(Message{Type: TypePostCreated, Data: data, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error("marshal feed message", "error", err)
		return
	}

	select {
	case h.broadcast <- msg:
	case <-h.ctx.Done():
	default:
		h.logger.Warn("feed broadcast buffer full, event dropped", "post_id", post.ID)
	}
}

// ClientCount возвращает число подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
		h.logger.Debug("feed client unregistered", "client_id", client.ID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		h.removeLocked(client)
	}
}
