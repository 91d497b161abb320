// Package cli implements joinctl, the maintenance command line for the Join
// collections.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"join/internal/config"
	"join/internal/repository"
	"join/internal/server"
	"join/internal/service"
)

// Opener connects a collection store. The returned closer releases it.
type Opener func(ctx context.Context) (repository.CollectionStore, io.Closer, error)

type App struct {
	JSON bool

	open Opener
}

// NewRootCmd builds joinctl against the backend selected by the environment.
func NewRootCmd() *cobra.Command {
	return newRootCmd(func(ctx context.Context) (repository.CollectionStore, io.Closer, error) {
		b, err := server.OpenBackend(ctx, config.Load())
		if err != nil {
			return nil, nil, err
		}
		return b.Store, b, nil
	})
}

// NewRootCmdWith builds joinctl on a caller supplied store.
func NewRootCmdWith(store repository.CollectionStore) *cobra.Command {
	return newRootCmd(func(context.Context) (repository.CollectionStore, io.Closer, error) {
		return store, nopCloser{}, nil
	})
}

func newRootCmd(open Opener) *cobra.Command {
	app := &App{open: open}

	cmd := &cobra.Command{
		Use:          "joinctl",
		Short:        "Inspect and maintain Join contacts and tasks",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Fill empty collections with demo data
  joinctl seed

  # List the board
  joinctl tasks list --status inProgress

  # Move a task
  joinctl tasks move 1700000000000 done
`),
	}
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Print JSON instead of tables")

	cmd.AddCommand(newContactsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newResetCmd(app))
	return cmd
}

// session is one opened store with the services built over it.
type session struct {
	raw      repository.CollectionStore
	store    *service.Store
	contacts *service.ContactService
	board    *service.BoardService
	composer *service.Composer
	closer   io.Closer
}

func (a *App) session(ctx context.Context) (*session, error) {
	raw, closer, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetOutput(io.Discard)

	store := service.NewStore(
		repository.NewContactRepository(raw),
		repository.NewTaskRepository(raw),
		logger,
	)
	if err := store.Init(ctx); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("load collections: %w", err)
	}
	return &session{
		raw:      raw,
		store:    store,
		contacts: service.NewContactService(store),
		board:    service.NewBoardService(store),
		composer: service.NewComposer(store),
		closer:   closer,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (s *session) Close() error {
	return s.closer.Close()
}

func writeJSON(cmd *cobra.Command, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
	return err
}
