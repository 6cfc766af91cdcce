package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"adview/internal/config"
	"adview/internal/controller"
	"adview/internal/model"
	"adview/internal/present"
	"adview/internal/specify"
	"adview/internal/view"
	"adview/internal/wallet"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd() *cobra.Command {
	var (
		render     renderFlags
		walletFile string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Display ad content for the wallet in a state file, following its changes",
		Long: `Watches a wallet-state file and shows ad content for the connected wallet.

The file is YAML with the fields "connected" and "address". Every change of
connection or address triggers one request; a response for an address that is
no longer current is discarded. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := render.options(cmd.OutOrStdout())
			if err := opts.Validate(); err != nil {
				return err
			}

			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				logger.Warn("every request will fail authentication", zap.Error(err))
			}
			if walletFile == "" {
				walletFile = cfg.WalletFile
			}
			if walletFile == "" {
				return errors.WithHint(errors.New("--wallet-file is required"),
					"pass --wallet-file or set ADVIEW_WALLET_FILE")
			}

			client := specify.New(cfg, specify.WithLogger(logger))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, walletFile, client, present.New(cfg.AssetsURL), view.NewStream(opts))
		},
	}

	render.register(cmd.Flags())
	cmd.Flags().StringVar(&walletFile, "wallet-file", "", "wallet-state file to follow (env: ADVIEW_WALLET_FILE)")
	return cmd
}

func runWatch(ctx context.Context, walletFile string, server specify.Server, mapper present.Mapper, stream *view.Stream) error {
	show := func(s model.FetchState) {
		if err := stream.Write(mapper.Map(s)); err != nil {
			logger.Warn("render failed", zap.Error(err))
		}
	}

	ctrl := controller.New(server, controller.WithLogger(logger), controller.WithObserver(show))
	defer ctrl.Close()
	show(ctrl.State())

	changes := make(chan model.ConnectionState)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(changes)
		return wallet.NewWatcher(walletFile, logger).Run(gctx, func(s model.ConnectionState) {
			select {
			case changes <- s:
			case <-gctx.Done():
			}
		})
	})
	g.Go(func() error {
		for s := range changes {
			ctrl.Update(gctx, s)
		}
		return nil
	})
	return g.Wait()
}
