// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/logging"
	"go.weft.dev/weft/internal/workspace"
)

func newBuildCmd() *cobra.Command {
	var (
		outDir  string
		release bool
		force   bool
		debug   bool
	)

	cmd := &cobra.Command{
		Use:   "build [project]",
		Short: "Build every project in a workspace",
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

			opts := config.DefaultRuntimeOptions()
			opts.Force = force
			if release {
				opts.Profile = config.ProfileRelease
			} else {
				opts.Profile = config.ProfileDebug
			}

			ctx := context.Background()
			for _, p := range projects {
				d := workspace.NewDriver(p, outDir, opts, logf)
				if err := d.Lock(ctx); err != nil {
					return err
				}
				err := d.Build(ctx)
				unlockErr := d.Unlock()
				if err != nil {
					return err
				}
				if unlockErr != nil {
					return unlockErr
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "build", "Output directory")
	cmd.Flags().BoolVar(&release, "release", false, "Build for release (excludes drafts)")
	cmd.Flags().BoolVar(&force, "force", false, "Disable incremental builds")
	cmd.Flags().BoolVar(&debug, "debug", false, "Verbose logging")

	return cmd
}
