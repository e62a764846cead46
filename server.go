package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"meshbatch/config"
	"meshbatch/sim"
)

// StatsData is broadcast to every connected client.
type StatsData struct {
	Type      string  `json:"type"`
	Instances int     `json:"instances"`
	SimTime   float64 `json:"simTime"`
	Speed     float32 `json:"speed"`
	Paused    bool    `json:"paused"`
	FPS       float64 `json:"fps"`
}

// Controls carries the runtime knobs shared between the main loop and
// the websocket handlers.
type Controls struct {
	mu     sync.Mutex
	speed  float32
	paused bool
	fps    float64
}

func NewControls() *Controls {
	return &Controls{speed: 1.0}
}

func (c *Controls) Speed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Controls) SetSpeed(speed float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
}

func (c *Controls) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Controls) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

func (c *Controls) SetFPS(fps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *Controls) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

var clients = make(map[*websocket.Conn]*sync.Mutex)
var clientsMutex sync.RWMutex

// startServer serves the websocket control endpoint and broadcasts
// stats at the configured interval. Run it on its own goroutine.
func startServer(cfg config.ServerSettings, world *sim.World, controls *Controls) {
	go broadcastLoop(cfg, world, controls)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, world, controls)
	})

	fmt.Printf("Control server listening on %s\n", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, world *sim.World, controls *Controls) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	clientsMutex.Lock()
	clients[conn] = connMutex
	clientsMutex.Unlock()
	defer func() {
		clientsMutex.Lock()
		delete(clients, conn)
		clientsMutex.Unlock()
	}()

	sendStats(conn, connMutex, world, controls)

	// Handle incoming control messages (speed, pause)
	for {
		var msg map[string]interface{}
		err := conn.ReadJSON(&msg)
		if err != nil {
			log.Println("WebSocket read error:", err)
			break
		}

		if speed, ok := msg["simSpeed"].(float64); ok {
			fmt.Printf("SPEED CHANGE: %.2fx -> %.2fx\n", controls.Speed(), speed)
			controls.SetSpeed(float32(speed))
		}
		if paused, ok := msg["paused"].(bool); ok {
			fmt.Printf("PAUSED: %v\n", paused)
			controls.SetPaused(paused)
		}
	}
}

func broadcastLoop(cfg config.ServerSettings, world *sim.World, controls *Controls) {
	interval := time.Duration(cfg.UpdateIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		clientsMutex.RLock()
		for conn, connMutex := range clients {
			sendStats(conn, connMutex, world, controls)
		}
		clientsMutex.RUnlock()
	}
}

func sendStats(conn *websocket.Conn, connMutex *sync.Mutex, world *sim.World, controls *Controls) {
	stats := StatsData{
		Type:      "stats",
		Instances: world.Len(),
		SimTime:   world.Time(),
		Speed:     controls.Speed(),
		Paused:    controls.Paused(),
		FPS:       controls.FPS(),
	}

	connMutex.Lock()
	err := conn.WriteJSON(stats)
	connMutex.Unlock()
	if err != nil {
		log.Println("WebSocket write error:", err)
	}
}
