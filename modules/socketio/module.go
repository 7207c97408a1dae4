package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	defaultEvent   = "batch"
	defaultTimeout = 10 * time.Second
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of a StreamPublisher section.
type Input struct {
	URL                string   `param:"url"`
	Namespace          string   `param:"namespace,optional"`
	Event              string   `param:"event,optional"`
	Keys               []string `param:"keys"`
	Timeout            string   `param:"timeout,optional"`
	InsecureSkipVerify bool     `param:"insecure_skip_verify,optional"`
}

// Publisher emits the selected streams of every pass as one socket.io event.
// The connection is opened on the first pass and reused until Close.
type Publisher struct {
	component.Base
	input   Input
	keys    []string
	target  *url.URL
	timeout time.Duration

	mu     sync.Mutex
	client *socket.Socket
}

// New is the constructor registered for the StreamPublisher type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	p := &Publisher{Base: base, input: Input{Event: defaultEvent}, timeout: defaultTimeout}
	if err := params.Decode(&p.input); err != nil {
		return nil, err
	}
	if len(p.input.Keys) == 0 {
		return nil, errors.New("at least one key to publish is required")
	}

	p.target, err = url.Parse(p.input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if p.target.Scheme == "" || p.target.Host == "" {
		return nil, fmt.Errorf("URL '%s' must be absolute", p.input.URL)
	}
	if p.input.Timeout != "" {
		if p.timeout, err = time.ParseDuration(p.input.Timeout); err != nil {
			return nil, fmt.Errorf("failed to parse timeout: %w", err)
		}
	}

	for _, key := range p.input.Keys {
		p.keys = append(p.keys, p.DeclareInput(key, data.Definition{Description: "published to " + p.input.URL}))
	}
	return p, nil
}

// Forward implements component.Component.
func (p *Publisher) Forward(ctx context.Context, dd data.DataDict) error {
	payload := make(map[string]any, len(p.keys))
	for _, key := range p.keys {
		value, ok := dd[key]
		if !ok {
			return fmt.Errorf("%w: %s", data.ErrMissingKey, key)
		}
		payload[key] = value
	}

	client, err := p.connect(ctx)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Emitting event", "event", p.input.Event, "sid", client.Id())
	client.Emit(p.input.Event, payload)
	return nil
}

// connect returns the open client, dialing it first if needed.
func (p *Publisher) connect(ctx context.Context) (*socket.Socket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}

	logger := ctxlog.FromContext(ctx).With("url", p.input.URL)
	logger.Info("Connecting to socket.io endpoint")

	opts := socket.DefaultOptions()
	opts.SetPath(p.target.Path)
	if p.input.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", p.target.Scheme, p.target.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(p.input.Namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})
	io.Connect()

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", p.timeout)
	}

	logger.Info("Successfully connected", "sid", io.Id())
	p.client = io
	return io, nil
}

// Close disconnects the client, if one was opened.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Disconnect()
		p.client = nil
	}
	return nil
}

// Register registers the StreamPublisher type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".sinks.StreamPublisher",
		Alias:        "StreamPublisher",
		Capabilities: component.CapComponent,
		New:          New,
		Description:  "Emits selected streams to a socket.io endpoint.",
	})
}
