package events

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrUnsupportedScheme is returned by Dial for an unknown URL scheme.
var ErrUnsupportedScheme = errors.New("unsupported events URL scheme")

// DefaultConnectTimeout bounds how long Dial waits for a socket.io handshake.
const DefaultConnectTimeout = 10 * time.Second

// Dial opens the sink an events URL points at.
func Dial(ctx context.Context, rawURL string) (Sink, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse events URL: %w", err)
	}

	switch u.Scheme {
	case "amqp", "amqps":
		exchange := u.Query().Get("exchange")
		q := u.Query()
		q.Del("exchange")
		u.RawQuery = q.Encode()
		return DialAMQP(u.String(), exchange)
	case "http", "https", "ws", "wss":
		return DialSocketIO(ctx, u, DefaultConnectTimeout)
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("file events URL needs a path: %q", rawURL)
		}
		return OpenFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}
