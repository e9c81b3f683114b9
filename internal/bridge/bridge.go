// Package bridge is the message bridge between the UI layer and command
// handlers. Arguments and results cross it as JSON, so the same commands
// serve the window and the command line.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"horizon-ai/internal/logger"
)

// Handler runs one command. The returned value is JSON-encoded.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type Bridge struct {
	handlers map[string]Handler
	mu       sync.RWMutex
	logger   logger.Logger
}

func New(log logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{
		handlers: make(map[string]Handler),
		logger:   log,
	}
}

// PluginCommand names a command owned by a plugin, e.g. "plugin:dialog|open".
func PluginCommand(plugin, command string) string {
	return "plugin:" + plugin + "|" + command
}

func (b *Bridge) Register(name string, handler Handler) error {
	if name == "" {
		return errors.New("command name is empty")
	}
	if handler == nil {
		return fmt.Errorf("command %s has no handler", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}
	b.handlers[name] = handler
	return nil
}

// Commands lists the registered command names in order.
func (b *Bridge) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command and returns its JSON-encoded result. Every
// failure is a *Error.
func (b *Bridge) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	b.mu.RLock()
	handler, ok := b.handlers[name]
	b.mu.RUnlock()

	if !ok {
		return nil, b.fail(name, &Error{Code: CodeNotFound, Message: "no such command"})
	}
	if err := ctx.Err(); err != nil {
		return nil, b.fail(name, &Error{Code: CodeCancelled, Message: err.Error(), Err: err})
	}

	start := time.Now()
	result, err := b.call(ctx, handler, args)
	if err != nil {
		return nil, b.fail(name, classify(err))
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, b.fail(name, &Error{Code: CodeInternal, Message: "failed to encode result", Err: err})
	}

	b.logger.Debug("Bridge", "command invoked", map[string]interface{}{
		"command":     name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return encoded, nil
}

// InvokeAsync runs Invoke on its own goroutine and hands the outcome to done.
// The UI uses it so a slow command never stalls the run loop.
func (b *Bridge) InvokeAsync(ctx context.Context, name string, args json.RawMessage, done func(json.RawMessage, error)) {
	go func() {
		result, err := b.Invoke(ctx, name, args)
		if done != nil {
			done(result, err)
		}
	}()
}

func (b *Bridge) call(ctx context.Context, handler Handler, args json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Code: CodeInternal, Message: fmt.Sprintf("handler panicked: %v", r)}
		}
	}()
	return handler(ctx, args)
}

func (b *Bridge) fail(name string, e *Error) *Error {
	e.Command = name
	b.logger.Warning("Bridge", "command failed", map[string]interface{}{
		"command": name,
		"code":    e.Code,
		"error":   e.Message,
	})
	return e
}

func classify(err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		// copy so the handler's value is not mutated by fail
		c := *be
		return &c
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeCancelled, Message: err.Error(), Err: err}
	}
	return &Error{Code: CodeFailed, Message: err.Error(), Err: err}
}

// Command adapts a typed function into a Handler. Empty or null arguments
// decode as the zero Req.
func Command[Req any, Resp any](fn func(ctx context.Context, req Req) (Resp, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var req Req
		trimmed := bytes.TrimSpace(args)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &req); err != nil {
				return nil, &Error{Code: CodeInvalidArgs, Message: err.Error(), Err: err}
			}
		}
		return fn(ctx, req)
	}
}

// Decode unmarshals a command result.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode command result: %w", err)
	}
	return v, nil
}
