package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
	"github.com/gogpu/wallgen/server"
	"github.com/gogpu/wallgen/session"
	"github.com/gogpu/wallgen/walls"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [scene.json]",
		Short: "Serve a scene and keep its walls in sync",
		Long: `Serve opens the configured scene store, optionally seeded from a scene
file, and runs the wall session against it. The HTTP API edits the scene;
connected WebSocket clients receive every wall patch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.serve(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) serve(ctx context.Context, args []string) error {
	logger := loggerFromContext(ctx)

	f := &scene.File{}
	if len(args) == 1 {
		var err error
		if f, err = scene.ReadFile(args[0]); err != nil {
			return err
		}
	}

	store, closeStore, err := c.Config.OpenStore(ctx, f.Items...)
	if err != nil {
		return err
	}
	defer closeStore()
	if f.Ready {
		if err := store.SetReady(ctx, true); err != nil {
			return err
		}
	}

	hub := server.NewHub()
	defer hub.Close()
	srv := server.New(store, hub, slog.New(logger))

	engine := reconcile.New(store)
	walls.Register(engine, c.extractor())
	engine.Observe(srv.Publish)

	ln, err := net.Listen("tcp", c.Config.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 2)
	go func() {
		errc <- session.New(store, engine).Run(ctx)
	}()
	go func() {
		err := httpSrv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	logger.Info("Serving scene",
		"addr", ln.Addr().String(),
		"store", c.Config.Store.Backend,
		"items", len(f.Items))

	select {
	case <-ctx.Done():
	case err = <-errc:
	}
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	hub.Close()
	if serr := httpSrv.Shutdown(sctx); serr != nil && err == nil {
		err = serr
	}
	logger.Info("Stopped")
	return err
}
