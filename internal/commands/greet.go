// Package commands holds the application's own bridge commands.
package commands

import (
	"context"

	"horizon-ai/internal/bridge"
)

const GreetCommand = "greet"

type GreetArgs struct {
	Name string `json:"name"`
}

// Greet formats the greeting for name. It is total: any string, including
// the empty one, yields "Hello, <name>!".
func Greet(name string) string {
	return "Hello, " + name + "!"
}

// Register exposes the application commands on b.
func Register(b *bridge.Bridge) error {
	return b.Register(GreetCommand, bridge.Command(func(_ context.Context, args GreetArgs) (string, error) {
		return Greet(args.Name), nil
	}))
}
