package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
)

// Dispatcher owns the session and runs the read-resolve-gate-execute loop.
// It is Idle between commands; a command-level error aborts only the
// command that raised it and the loop returns to Idle. Only store failures
// escape Run.
type Dispatcher struct {
	registry *Registry
	session  *domain.Session
	prompter *Prompter
	out      io.Writer
	logger   *zap.Logger
}

func NewDispatcher(registry *Registry, session *domain.Session, prompter *Prompter, out io.Writer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		session:  session,
		prompter: prompter,
		out:      out,
		logger:   logger,
	}
}

// Session exposes the session the dispatcher owns.
func (d *Dispatcher) Session() *domain.Session {
	return d.session
}

// Run reads command codes until input ends or the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		code, err := d.prompter.ReadLine(d.prompt())
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		cmd, ok := d.registry.Resolve(code)
		if !ok {
			// Unknown codes are ignored on purpose; the terminal stays quiet.
			d.logger.Debug("unrecognized command code", zap.String("code", code))
			continue
		}

		if err := d.execute(ctx, cmd); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, cmd *Command) error {
	if cmd.Required != nil {
		if err := domain.Guard(d.session, cmd.Required); err != nil {
			d.report(cmd, err)
			return nil
		}
	}
	if err := cmd.Run(ctx, d.session); err != nil {
		if recoverable(err) {
			d.report(cmd, err)
			return nil
		}
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func recoverable(err error) bool {
	return errors.Is(err, domain.ErrNotAuthenticated) ||
		errors.Is(err, domain.ErrPermissionDenied) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation)
}

func (d *Dispatcher) report(cmd *Command, err error) {
	fmt.Fprintf(d.out, "\t%v\n", err)
	d.logger.Warn("command aborted",
		zap.String("command", cmd.Name),
		zap.String("tier", string(d.session.Tier)),
		zap.Error(err))
}

func (d *Dispatcher) prompt() string {
	who := "Guest"
	if d.session.Authenticated() {
		who = d.session.Email
	}
	return fmt.Sprintf("    ~ (%s): ", who)
}
