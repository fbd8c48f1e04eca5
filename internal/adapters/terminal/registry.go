package terminal

import (
	"context"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// Handler runs one business action for the current session.
type Handler func(ctx context.Context, sess *domain.Session) error

// Command binds a handler to its codes and to the tier set allowed to
// invoke it. Aliased codes resolve to the same handler; the handler
// re-derives any identity scoping from the session tier, never from the
// code variant used to reach it.
type Command struct {
	Name     string
	Codes    []string
	Required domain.TierSet // nil means open to everyone, Guest included
	Run      Handler
}

// Registry is the many-to-one mapping from command codes to commands.
type Registry struct {
	commands []*Command
	byCode   map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]*Command)}
}

func (r *Registry) Register(cmd *Command) {
	r.commands = append(r.commands, cmd)
	for _, code := range cmd.Codes {
		r.byCode[code] = cmd
	}
}

// Resolve returns the command bound to a code, if any.
func (r *Registry) Resolve(code string) (*Command, bool) {
	cmd, ok := r.byCode[code]
	return cmd, ok
}

// Commands returns every registered command in registration order.
func (r *Registry) Commands() []*Command {
	return r.commands
}
