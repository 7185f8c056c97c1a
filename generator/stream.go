package generator

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/saradhi4688/qrngenv/log"
)

// streamBufferSize is the number of results a subscriber may lag behind
// before it is dropped.
const streamBufferSize = 16

var (
	streamLock        sync.Mutex
	streamSubscribers = make(map[*streamSubscriber]struct{})

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 65536,
	}
)

type streamSubscriber struct {
	conn *websocket.Conn
	send chan *Result
}

func registerStreamHook() error {
	return module.RegisterEventHook(
		module.Name,
		generationEvent,
		"push result to stream subscribers",
		func(_ context.Context, data interface{}) error {
			result, ok := data.(*Result)
			if !ok {
				return nil
			}
			broadcastResult(result)
			return nil
		},
	)
}

// handleStream upgrades the connection to a websocket and pushes every newly
// committed result to it, until the peer disconnects or the module stops.
func handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied with an error.
		log.Warningf("generator: failed to upgrade stream connection from %s: %s", r.RemoteAddr, err)
		return
	}

	sub := &streamSubscriber{
		conn: conn,
		send: make(chan *Result, streamBufferSize),
	}
	addStreamSubscriber(sub)
	log.Infof("generator: result stream to %s started", r.RemoteAddr)

	// The writer runs as a worker. Reading stays in the handler in order to
	// notice when the peer goes away.
	module.StartWorker("stream writer", sub.writer)
	sub.reader()

	log.Infof("generator: result stream to %s ended", r.RemoteAddr)
}

func addStreamSubscriber(sub *streamSubscriber) {
	streamLock.Lock()
	defer streamLock.Unlock()

	streamSubscribers[sub] = struct{}{}
}

// removeStreamSubscriber unsubscribes sub and closes its send channel exactly
// once. Safe to call multiple times.
func removeStreamSubscriber(sub *streamSubscriber) {
	streamLock.Lock()
	defer streamLock.Unlock()

	if _, ok := streamSubscribers[sub]; ok {
		delete(streamSubscribers, sub)
		close(sub.send)
	}
}

// broadcastResult hands the result to all subscribers. A subscriber that has
// fallen behind by more than its buffer is dropped, a slow consumer must not
// stall generation.
func broadcastResult(result *Result) {
	streamLock.Lock()
	defer streamLock.Unlock()

	for sub := range streamSubscribers {
		select {
		case sub.send <- result:
		default:
			delete(streamSubscribers, sub)
			close(sub.send)
			log.Warningf("generator: dropping slow stream subscriber %s", sub.conn.RemoteAddr())
		}
	}
}

func (sub *streamSubscriber) writer(ctx context.Context) error {
	defer func() {
		_ = sub.conn.Close()
	}()

	for {
		select {
		case result, ok := <-sub.send:
			if !ok {
				// Unsubscribed, say goodbye properly.
				_ = sub.conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				)
				return nil
			}
			if err := sub.conn.WriteJSON(result); err != nil {
				removeStreamSubscriber(sub)
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debugf("generator: result stream to %s failed: %s", sub.conn.RemoteAddr(), err)
				}
				return nil
			}

		case <-ctx.Done():
			removeStreamSubscriber(sub)
			return nil
		}
	}
}

// reader discards incoming messages and returns when the connection dies.
func (sub *streamSubscriber) reader() {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			break
		}
	}
	removeStreamSubscriber(sub)
}
