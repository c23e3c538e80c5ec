package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ErrNotConnected is returned by SocketIOSink.Send while the client is
// disconnected.
var ErrNotConnected = errors.New("socket.io client is not connected")

// SocketIOSink emits every event under its type name on one namespace.
type SocketIOSink struct {
	io *socket.Socket
}

var _ Sink = (*SocketIOSink)(nil)

// socketIOTarget splits an events URL into the manager URL, the socket.io
// endpoint path and the namespace. The URL path is the namespace; the
// optional "path" query parameter overrides the endpoint.
func socketIOTarget(u *url.URL) (baseURL, path, namespace string) {
	scheme := u.Scheme
	switch scheme {
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	}

	path = u.Query().Get("path")
	if path == "" {
		path = "/socket.io/"
	}
	namespace = u.Path
	if namespace == "" {
		namespace = "/"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host), path, namespace
}

// DialSocketIO connects to a socket.io server and waits for the namespace
// handshake.
func DialSocketIO(ctx context.Context, u *url.URL, timeout time.Duration) (*SocketIOSink, error) {
	baseURL, path, namespace := socketIOTarget(u)
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", baseURL, "namespace", namespace)
	logger.Debug("Connecting event sink...")

	opts := socket.DefaultOptions()
	opts.SetPath(path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Event sink connected.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIOSink{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
}

// Send implements Sink.
func (s *SocketIOSink) Send(_ context.Context, ev Event) error {
	if !s.io.Connected() {
		return ErrNotConnected
	}
	s.io.Emit(string(ev.Type), ev)
	return nil
}

// Close implements Sink.
func (s *SocketIOSink) Close() error {
	s.io.Disconnect()
	return nil
}
