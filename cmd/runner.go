package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dialsync/internal/services"
	"github.com/desertthunder/dialsync/internal/shared"
	"github.com/desertthunder/dialsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	source    services.SourceService
	directory services.DirectoryService
	logger    *log.Logger
	output    io.Writer
	engine    *tasks.ContactEngine
	now       func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Source    services.SourceService
	Directory services.DirectoryService
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	engine := tasks.NewContactEngine(opts.Source, opts.Directory, tasks.EngineOpts{
		CompanyID:         opts.Config.Credentials.Dialpad.CompanyID,
		DeleteUnqualified: opts.Config.Sync.DeleteUnqualified,
		RateLimit:         opts.Config.Sync.RateLimit,
	})

	return &Runner{
		config:    opts.Config,
		source:    opts.Source,
		directory: opts.Directory,
		logger:    opts.Logger,
		output:    opts.Output,
		engine:    engine,
		now:       time.Now,
	}
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, contactsCommand, directoryCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// authenticate validates credentials and prepares both platform clients.
// Runs before any network call so missing secrets fail fast.
func (r *Runner) authenticate(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("%w: CRM service not initialized", shared.ErrServiceUnavailable)
	}
	if r.directory == nil {
		return fmt.Errorf("%w: directory service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.config.ValidateCredentials(); err != nil {
		return err
	}

	if err := r.source.Authenticate(ctx, map[string]string{
		"api_key": r.config.Credentials.HubSpot.APIKey,
	}); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", r.source.Name(), err)
	}

	if err := r.directory.Authenticate(ctx, map[string]string{
		"api_key": r.config.Credentials.Dialpad.APIKey,
	}); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", r.directory.Name(), err)
	}

	return nil
}

// authenticateSource prepares only the CRM client, for read-only debug commands.
func (r *Runner) authenticateSource(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("%w: CRM service not initialized", shared.ErrServiceUnavailable)
	}
	if r.config.Credentials.HubSpot.APIKey == "" {
		return fmt.Errorf("%w: hubspot api key", shared.ErrMissingCredentials)
	}
	return r.source.Authenticate(ctx, map[string]string{
		"api_key": r.config.Credentials.HubSpot.APIKey,
	})
}

// authenticateDirectory prepares only the directory client.
func (r *Runner) authenticateDirectory(ctx context.Context) error {
	if r.directory == nil {
		return fmt.Errorf("%w: directory service not initialized", shared.ErrServiceUnavailable)
	}
	if r.config.Credentials.Dialpad.APIKey == "" {
		return fmt.Errorf("%w: dialpad api key", shared.ErrMissingCredentials)
	}
	return r.directory.Authenticate(ctx, map[string]string{
		"api_key": r.config.Credentials.Dialpad.APIKey,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
