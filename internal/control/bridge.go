package control

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 2 * time.Second
	clientSend = 64
)

// Bridge exposes a Channel to an out-of-process controller over a websocket.
// Every connected client receives all events; the handoff is replayed to
// clients that connect after it was emitted.
type Bridge struct {
	ch       *Channel
	upgrader websocket.Upgrader
	writers  sync.WaitGroup

	mu      sync.Mutex
	clients map[*client]struct{}
	handoff *Handoff
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewBridge(ch *Channel) *Bridge {
	return &Bridge{
		ch: ch,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // loopback only, see Serve
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Run forwards scope events to the connected clients until the scope
// acknowledges its shutdown or ctx is done. Queued messages are written out
// and the clients closed before Run returns.
func (b *Bridge) Run(ctx context.Context) {
	defer b.close()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-b.ch.Events():
			b.broadcast(e)
			if _, ok := e.(ShutdownAck); ok {
				return
			}
		}
	}
}

func (b *Bridge) broadcast(e Event) {
	data, err := encodeEvent(e)
	if err != nil {
		log.Err(err).Str("type", e.Type()).Msg("failed to encode event")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if h, ok := e.(Handoff); ok {
		b.handoff = &h
	}
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			log.Debug().Msg("controller client too slow, dropping event")
		}
	}
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("failed to upgrade controller connection")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientSend)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.clients[c] = struct{}{}
	b.writers.Add(1)
	if b.handoff != nil {
		if data, err := encodeEvent(*b.handoff); err == nil {
			c.send <- data
		}
	}
	b.mu.Unlock()

	log.Info().Str("remote", r.RemoteAddr).Msg("controller connected")
	go b.writePump(c)
	b.readPump(c)
}

func (b *Bridge) readPump(c *client) {
	defer func() {
		b.mu.Lock()
		if _, ok := b.clients[c]; ok {
			delete(b.clients, c)
			close(c.send)
		}
		b.mu.Unlock()
		log.Info().Msg("controller disconnected")
	}()

	for {
		var req request
		if err := c.conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("controller read failed")
			}
			return
		}
		switch req.Type {
		case "update":
			u, err := DecodeUpdate(req.Field, req.Value)
			if err != nil {
				log.Warn().Err(err).Msg("rejecting controller update")
				continue
			}
			b.ch.Send(u)
		case "shutdown":
			b.ch.RequestShutdown()
		default:
			log.Warn().Str("type", req.Type).Msg("unknown controller message")
		}
	}
}

func (b *Bridge) writePump(c *client) {
	defer b.writers.Done()
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (b *Bridge) close() {
	b.mu.Lock()
	b.closed = true
	for c := range b.clients {
		delete(b.clients, c)
		close(c.send)
	}
	b.mu.Unlock()
	b.writers.Wait()
}

// Serve serves the bridge on ln at /control until ctx is done. ln should be
// a loopback listener; the bridge has no authentication.
func (b *Bridge) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/control", b)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", ln.Addr().String()).Msg("controller bridge listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
