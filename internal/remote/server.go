// ABOUTME: Websocket control server for companion apps
// ABOUTME: Translates JSON commands onto the engine command channel
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmuffler/dmuffler-go/internal/engine"
	"github.com/dmuffler/dmuffler-go/internal/sounds"
	"github.com/dmuffler/dmuffler-go/internal/version"
)

// VolumeControl is the output surface companion apps may adjust.
type VolumeControl interface {
	SetVolume(volume int)
	SetMuted(muted bool)
	GetVolume() int
	IsMuted() bool
}

// Config holds remote server configuration.
type Config struct {
	Port     int
	Name     string
	Commands chan<- engine.Command
	Status   func() engine.Status
	Output   VolumeControl
}

// Server accepts companion-app connections. It only ever forwards commands
// to the engine; playback state stays owned by the engine goroutine.
type Server struct {
	config   Config
	serverID string

	upgrader   websocket.Upgrader
	httpServer *http.Server

	clients   map[string]*client
	clientsMu sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// client is one connected companion app.
type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// New creates a remote control server.
func New(config Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config:   config,
		serverID: uuid.New().String(),
		upgrader: websocket.Upgrader{
			// Local-network deployment; companion apps send no Origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins listening and broadcasting state updates.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/dmuffler", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: mux,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Printf("Remote control listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Remote control server error: %v", err)
		}
	}()

	s.wg.Add(1)
	go s.broadcastLoop()

	return nil
}

// handleWebSocket upgrades a connection and runs its read/write loops.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// A connection landing during Stop must not add to the wait group
	// after Wait has started.
	if s.ctx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan Message, 16),
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	log.Printf("Companion app connected: %s (%s)", c.id, r.RemoteAddr)

	c.send <- Message{Type: "server/hello", Payload: s.hello()}

	s.wg.Add(2)
	go s.writeLoop(c)
	go s.readLoop(c)
}

// hello builds the handshake payload with the sound catalog.
func (s *Server) hello() ServerHello {
	var catalog []SoundInfo
	for _, name := range sounds.Names() {
		id, _ := sounds.SoundID(name)
		catalog = append(catalog, SoundInfo{ID: id, Name: name})
	}

	return ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  version.Version,
		Sounds:   catalog,
	}
}

// readLoop translates incoming commands onto the engine channel.
func (s *Server) readLoop(c *client) {
	defer s.wg.Done()
	defer s.dropClient(c)

	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := c.conn.ReadJSON(&msg); err != nil {
			log.Printf("Companion app %s disconnected: %v", c.id, err)
			return
		}

		if msg.Type != "control/command" {
			log.Printf("Ignoring message type %q from %s", msg.Type, c.id)
			continue
		}

		var ctrl ControlCommand
		if err := json.Unmarshal(msg.Payload, &ctrl); err != nil {
			log.Printf("Bad control payload from %s: %v", c.id, err)
			continue
		}

		if err := s.dispatch(ctrl); err != nil {
			log.Printf("Rejected command from %s: %v", c.id, err)
		}
	}
}

// dispatch routes one companion-app command. Volume and mute act on the
// output directly; everything else becomes an engine command.
func (s *Server) dispatch(ctrl ControlCommand) error {
	switch ctrl.Command {
	case "set_volume":
		if s.config.Output == nil {
			return fmt.Errorf("no output attached")
		}
		s.config.Output.SetVolume(ctrl.Volume)
		return nil
	case "set_muted":
		if s.config.Output == nil {
			return fmt.Errorf("no output attached")
		}
		s.config.Output.SetMuted(ctrl.Muted)
		return nil
	}

	cmd, err := TranslateCommand(ctrl)
	if err != nil {
		return err
	}

	select {
	case s.config.Commands <- cmd:
	case <-s.ctx.Done():
	}
	return nil
}

// writeLoop pushes queued messages to one client.
func (s *Server) writeLoop(c *client) {
	defer s.wg.Done()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// broadcastLoop periodically publishes the engine state to all apps.
func (s *Server) broadcastLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.config.Status == nil {
				continue
			}
			st := s.config.Status()
			update := StateUpdate{
				Playing:     st.Playing,
				PitchFactor: st.PitchFactor,
				Semitones:   st.Semitones,
				Sound:       st.Sound,
			}
			if s.config.Output != nil {
				update.Volume = s.config.Output.GetVolume()
				update.Muted = s.config.Output.IsMuted()
			}
			s.broadcast(Message{Type: "state/update", Payload: update})
		case <-s.ctx.Done():
			return
		}
	}
}

// broadcast queues a message for every connected client, dropping it for
// clients whose send buffer is full.
func (s *Server) broadcast(msg Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// dropClient removes and closes a client connection.
func (s *Server) dropClient(c *client) {
	s.clientsMu.Lock()
	delete(s.clients, c.id)
	s.clientsMu.Unlock()
	c.conn.Close()
}

// Stop shuts the server down.
func (s *Server) Stop() {
	s.cancel()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}

	s.clientsMu.Lock()
	for _, c := range s.clients {
		c.conn.Close()
	}
	s.clients = make(map[string]*client)
	s.clientsMu.Unlock()

	s.wg.Wait()
}

// TranslateCommand maps a companion-app command onto an engine command.
func TranslateCommand(ctrl ControlCommand) (engine.Command, error) {
	switch ctrl.Command {
	case "play_pause":
		return engine.Command{Op: engine.OpTogglePlay}, nil
	case "pitch_up":
		return engine.Command{Op: engine.OpPitchUp}, nil
	case "pitch_down":
		return engine.Command{Op: engine.OpPitchDown}, nil
	case "reset":
		return engine.Command{Op: engine.OpReset}, nil
	case "set_sound":
		name, ok := sounds.SoundByID(ctrl.SoundID)
		if !ok {
			return engine.Command{}, fmt.Errorf("unknown sound ID: %d", ctrl.SoundID)
		}
		return engine.Command{Op: engine.OpSelectSound, Sound: name}, nil
	default:
		return engine.Command{}, fmt.Errorf("unknown command: %q", ctrl.Command)
	}
}
