/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/itemstore"
)

var provisionCmd = &cobra.Command{
	Use:   "provision [type...]",
	Short: "Get or create the containers of declared item types",
	Long: `Provision the container of every item type declared in the configuration,
or only of the named types. With --force-sync the live container is
reconciled even for types that do not enable synchronization.`,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().Bool("force-sync", false, "Reconcile container properties for every type")
	provisionCmd.Flags().Int("concurrency", 4, "Maximum containers provisioned at once")
	provisionCmd.Flags().Duration("timeout", 5*time.Minute, "Overall provisioning timeout")
}

func runProvision(cmd *cobra.Command, args []string) error {
	forceSync, _ := cmd.Flags().GetBool("force-sync")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := itemstore.NewFromOptions(ctx, opts, itemstore.WithLogger(logger))
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = opts.ItemTypes()
	}
	if len(names) == 0 {
		cmd.Println("No item types declared.")
		return nil
	}

	return provisionAll(ctx, store, names, forceSync, concurrency, logger)
}

// provisionAll provisions the named item types with at most concurrency
// calls in flight and stops at the first failure.
func provisionAll(ctx context.Context, store *itemstore.Store, names []string, forceSync bool, concurrency int, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, name := range names {
		g.Go(func() error {
			handle, err := store.ProvisionDeclared(gctx, name, forceSync)
			if err != nil {
				logger.Error("provisioning failed", zap.String("item_type", name), zap.Error(err))
				return err
			}
			logger.Info("container ready",
				zap.String("item_type", name),
				zap.String("container", handle.ID()))
			return nil
		})
	}
	return g.Wait()
}
