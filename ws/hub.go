package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	CourseClients map[string]map[*websocket.Conn]*Client // Theo từng courseID (trang admin media)
	UserClients   map[string]map[*websocket.Conn]*Client // Theo từng userID (thông báo riêng)
	GlobalClients map[*websocket.Conn]*Client            // Dành cho broadcast chung
	Mutex         sync.RWMutex
}

var H = Hub{
	CourseClients: make(map[string]map[*websocket.Conn]*Client),
	UserClients:   make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// Struct gửi tiến trình upload media của 1 khóa học
type MediaUploadUpdate struct {
	CourseID string `json:"course_id"`
	Kind     string `json:"kind"` // video | pdf | image
	Status   string `json:"status"`
	Title    string `json:"title,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Register theo courseID riêng
func (h *Hub) RegisterCourse(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.CourseClients[courseID]; !ok {
		h.CourseClients[courseID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.CourseClients[courseID][conn] = client

	go h.readCoursePump(courseID, conn)
	go h.writeCoursePump(courseID, conn)
}

// Register kênh riêng theo userID (một user có thể mở nhiều tab)
func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.UserClients[userID]; !ok {
		h.UserClients[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.UserClients[userID][conn] = client

	go h.readUserPump(userID, conn)
	go h.writeUserPump(userID, conn)
}

// Register global cho trang danh sách
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go h.readGlobalPump(conn)
	go h.writeGlobalPump(conn)
}

// Broadcast theo courseID
func (h *Hub) BroadcastCourse(courseID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.CourseClients[courseID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast cho mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.UserClients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast toàn bộ global clients (danh sách)
func (h *Hub) BroadcastGlobal(messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// GetStats trả về số kết nối đang mở (cho /health)
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	courseConns := 0
	for _, clients := range h.CourseClients {
		courseConns += len(clients)
	}
	userConns := 0
	for _, clients := range h.UserClients {
		userConns += len(clients)
	}
	return map[string]int{
		"course_connections": courseConns,
		"user_connections":   userConns,
		"global_connections": len(h.GlobalClients),
	}
}

// Unregister client theo courseID
func (h *Hub) UnregisterCourse(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.CourseClients[courseID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.CourseClients, courseID)
		}
	}
}

// Unregister kênh user
func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.UserClients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.UserClients, userID)
		}
	}
}

// Unregister global client
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// Read pump riêng theo courseID
func (h *Hub) readCoursePump(courseID string, conn *websocket.Conn) {
	defer h.UnregisterCourse(courseID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump riêng theo courseID
func (h *Hub) writeCoursePump(courseID string, conn *websocket.Conn) {
	client := h.CourseClients[courseID][conn]
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Read pump kênh user
func (h *Hub) readUserPump(userID string, conn *websocket.Conn) {
	defer h.UnregisterUser(userID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump kênh user
func (h *Hub) writeUserPump(userID string, conn *websocket.Conn) {
	client := h.UserClients[userID][conn]
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Read pump global
func (h *Hub) readGlobalPump(conn *websocket.Conn) {
	defer h.UnregisterGlobal(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump global
func (h *Hub) writeGlobalPump(conn *websocket.Conn) {
	client := h.GlobalClients[conn]
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Public function gửi tiến trình upload media của khóa học
func SendMediaUploadUpdate(courseID, kind, status, title, errorMsg string) {
	update := MediaUploadUpdate{
		CourseID: courseID,
		Kind:     kind,
		Status:   status,
		Title:    title,
		Error:    errorMsg,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastCourse(courseID, websocket.TextMessage, data)
}

// Public function gửi cập nhật badge thông báo chưa đọc cho user
func SendBadgeUpdate(userID string, unreadCount int64) {
	payload := map[string]interface{}{
		"type":         "badge_update",
		"unread_count": unreadCount,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, websocket.TextMessage, data)
}

// Public function gửi signal cập nhật danh sách khóa học
func BroadcastCourseListChanged() {
	data := []byte(`{"type": "course_list_changed"}`)
	H.BroadcastGlobal(websocket.TextMessage, data)
}
