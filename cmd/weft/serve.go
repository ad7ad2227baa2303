// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/livereload"
	"go.weft.dev/weft/internal/logging"
	"go.weft.dev/weft/internal/watch"
	"go.weft.dev/weft/internal/workspace"
)

// driverRebuilder adapts a workspace.Driver to watch.Rebuilder. The
// driver has no notion of a partial recompile yet, so both Full and
// Partial just rerun the whole collate+compile pass; Watcher's
// debouncing keeps that cheap enough for a single dev project.
type driverRebuilder struct {
	driver *workspace.Driver
}

func (r driverRebuilder) Full(ctx context.Context) error {
	return r.driver.Build(ctx)
}

func (r driverRebuilder) Partial(ctx context.Context, src string) error {
	return r.driver.Build(ctx)
}

func newServeCmd() *cobra.Command {
	var (
		listen string
		outDir string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [project]",
		Short: "Build, watch, and serve a project with live reload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			logger := logging.New(os.Stderr, true, debug)
			logf := logging.Adapt(logger, -4)

			projects, err := workspace.Discover(root)
			if err != nil {
				return err
			}
			if len(projects) != 1 {
				return errServeSingleProject{root}
			}
			proj := projects[0]

			opts := config.DefaultRuntimeOptions()
			opts.Live = true
			opts.Profile = config.ProfileDebug

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			out := outDir
			if out == "" {
				out = filepath.Join(proj.Root, "build")
			}

			driver := workspace.NewDriver(proj, out, opts, logf)
			if err := driver.Lock(ctx); err != nil {
				return err
			}
			defer driver.Unlock()

			logf("performing initial build")
			if err := driver.Build(ctx); err != nil {
				logf("initial build failed: %v", err)
			}

			// The driver writes under out/<profile>/..., per the
			// documented build/<profile> output layout.
			servedRoot := filepath.Join(out, string(opts.Profile))

			hub := livereload.NewHub()
			mux := http.NewServeMux()
			mux.Handle("/__weft/ws", hub)
			mux.HandleFunc("/__weft/livereload.js", livereload.ServeScript)
			mux.Handle("/", http.FileServer(neuteredFileSystem{http.Dir(servedRoot)}))

			w, err := watch.New(proj.Root, driverRebuilder{driver}, hub, logf)
			if err != nil {
				return err
			}
			go func() {
				if err := w.Run(ctx); err != nil {
					logf("watch loop stopped: %v", err)
				}
			}()

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			logf("listening on http://%s", ln.Addr().String())

			httpSrv := &http.Server{Handler: mux}
			errCh := make(chan error, 1)
			go func() {
				if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				logf("shutting down")
			case err := <-errCh:
				return err
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "localhost:3000", "Listen on host:port")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: <project>/build)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Verbose logging")

	return cmd
}

type errServeSingleProject struct {
	root string
}

func (e errServeSingleProject) Error() string {
	return "serve requires exactly one project under " + e.root + "; use build for a multi-project workspace"
}

// neuteredFileSystem prevents http.FileServer from rendering directory
// listings: a missing index.html should 404, not leak a file index.
type neuteredFileSystem struct {
	fs http.FileSystem
}

func (nfs neuteredFileSystem) Open(path string) (http.File, error) {
	f, err := nfs.fs.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		index := filepath.Join(path, "index.html")
		if _, err := nfs.fs.Open(index); err != nil {
			closeErr := f.Close()
			if closeErr != nil {
				return nil, closeErr
			}
			return nil, err
		}
	}

	return f, nil
}
