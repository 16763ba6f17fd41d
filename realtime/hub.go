package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/utils"
)

// Event types
const (
	EventOrdersSnapshot = "orders_snapshot"
	EventMenusSnapshot  = "menus_snapshot"
	EventStatusUpdate   = "status_update"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans out full-collection snapshots to two kinds of consumers:
// websocket clients (the staff board in a browser) and in-process
// subscribers holding a channel. Every delivery is a complete replacement
// of the consumer's working set, never a diff.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role

	orderSubs map[int]chan []models.Order
	menuSubs  map[int]chan []models.Menu
	nextSubID int

	mutex sync.Mutex
}

var hub = Hub{
	clients:   make(map[*websocket.Conn]string),
	orderSubs: make(map[int]chan []models.Order),
	menuSubs:  make(map[int]chan []models.Menu),
}

// RegisterClient adds a websocket connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient releases a websocket connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// SubscribeOrders returns a feed of full order snapshots plus a cancel
// func. The feed holds at most the latest snapshot; a slow consumer sees
// the newest state, not a backlog. Cancel must be called on teardown.
func SubscribeOrders() (<-chan []models.Order, func()) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	id := hub.nextSubID
	hub.nextSubID++
	ch := make(chan []models.Order, 1)
	hub.orderSubs[id] = ch

	return ch, func() {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		delete(hub.orderSubs, id)
	}
}

// SubscribeMenus is the menu-collection counterpart of SubscribeOrders.
func SubscribeMenus() (<-chan []models.Menu, func()) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	id := hub.nextSubID
	hub.nextSubID++
	ch := make(chan []models.Menu, 1)
	hub.menuSubs[id] = ch

	return ch, func() {
		hub.mutex.Lock()
		defer hub.mutex.Unlock()
		delete(hub.menuSubs, id)
	}
}

// PublishOrders replaces every subscriber's order set and broadcasts the
// snapshot to websocket clients.
func PublishOrders(orders []models.Order) {
	hub.mutex.Lock()
	for _, ch := range hub.orderSubs {
		// drop the stale snapshot if the consumer has not drained it
		select {
		case <-ch:
		default:
		}
		ch <- orders
	}
	hub.mutex.Unlock()

	broadcast(Message{Event: EventOrdersSnapshot, Data: orders})
}

// PublishMenus replaces every subscriber's menu set and broadcasts the
// snapshot to websocket clients.
func PublishMenus(menus []models.Menu) {
	hub.mutex.Lock()
	for _, ch := range hub.menuSubs {
		select {
		case <-ch:
		default:
		}
		ch <- menus
	}
	hub.mutex.Unlock()

	broadcast(Message{Event: EventMenusSnapshot, Data: menus})
}

// BroadcastStatusUpdate announces one order's new status.
func BroadcastStatusUpdate(order models.Order) {
	broadcast(Message{Event: EventStatusUpdate, Data: order})
}

// BroadcastStaffNotification sends a transient message to staff clients.
func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
