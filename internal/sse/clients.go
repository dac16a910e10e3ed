// Package sse provides Server-Sent Events fan-out for page change notifications.
package sse

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/rs/zerolog"
)

// Event is one SSE frame.
type Event struct {
	Name string
	Data string
}

type Client struct {
	Msg chan Event
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends ev to every client. Clients that are not keeping up miss it.
func (s *SSEClients) Broadcast(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		select {
		case client.Msg <- ev:
		default:
		}
	}
}

// ServeHTTP streams broadcast events to one browser until it disconnects.
func (s *SSEClients) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	client := &Client{Msg: make(chan Event, 8)}
	s.Add(client)

	log := zerolog.Ctx(r.Context())
	log.Debug().Int("clients", s.Len()).Msg("SSE client connected")
	defer func() {
		s.Delete(client)
		log.Debug().Msg("SSE client disconnected")
	}()

	done := r.Context().Done()
	for {
		select {
		case ev, ok := <-client.Msg:
			if !ok {
				return
			}
			if ev.Name != "" {
				fmt.Fprintf(w, "event: %s\n", ev.Name)
			}
			fmt.Fprintf(w, "data: %s\n\n", ev.Data)
			flusher.Flush()
		case <-done:
			return
		}
	}
}
