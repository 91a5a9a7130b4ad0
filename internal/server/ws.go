package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stablesim/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Host-local tool, no origin restrictions.
		return true
	},
}

// wsHub fans tick telemetry out to connected websocket clients. Writes
// are serialized under the hub mutex; a failed write drops the client.
type wsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*websocket.Conn]bool)}
}

func (w *wsHub) add(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[conn] = true
}

func (w *wsHub) remove(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *wsHub) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

func (w *wsHub) broadcastTick(st model.TickStats) {
	w.broadcast(map[string]interface{}{
		"type":           "tick",
		"tick":           st.Tick,
		"total_deposits": st.TotalDeposits,
		"total_coin":     st.TotalCoin,
	})
}

func (w *wsHub) broadcastFinished(res *model.Result) {
	w.broadcast(map[string]interface{}{
		"type":           "finished",
		"ticks":          res.Ticks,
		"stop_reason":    string(res.Stop),
		"total_deposits": res.TotalDeposits,
		"total_coin":     res.TotalCoin,
	})
}

func (w *wsHub) broadcast(msg map[string]interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for conn := range w.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(w.clients, conn)
		}
	}
}

// handleWS upgrades the connection and streams tick events until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade failed: %v", err)
		return
	}

	// Greet with the current status before joining the broadcast set so
	// the two writers never overlap.
	hello := s.hub.Status()
	if err := conn.WriteJSON(map[string]interface{}{
		"type":      "hello",
		"time":      time.Now().UTC(),
		"phase":     hello.Phase,
		"tick":      hello.Tick,
		"max_ticks": hello.MaxTicks,
	}); err != nil {
		conn.Close()
		return
	}

	s.hub.ws.add(conn)
	log.Printf("[INFO] websocket client connected (%d active)", s.hub.ws.count())
	defer func() {
		s.hub.ws.remove(conn)
		conn.Close()
		log.Printf("[INFO] websocket client disconnected (%d active)", s.hub.ws.count())
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
