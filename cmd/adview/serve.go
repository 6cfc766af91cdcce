package main

import (
	"adview/internal/config"
	"adview/internal/controller"
	"adview/internal/model"
	"adview/internal/present"
	"adview/internal/specify"
	"adview/internal/view"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

var errServeFailed = errors.New("ad content request failed")

func newServeCmd() *cobra.Command {
	var render renderFlags

	cmd := &cobra.Command{
		Use:   "serve [wallet-address]",
		Short: "Fetch ad content for a wallet address and display it",
		Long: `Fetches ad content for a single wallet address and renders the result.

The address defaults to the zero address. SPECIFY_PUBLISHER_KEY must be set;
without it the command stops before contacting the ad server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := render.options(cmd.OutOrStdout())
			if err := opts.Validate(); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			address := zeroAddress
			if len(args) == 1 {
				address = args[0]
			}

			client := specify.New(cfg, specify.WithLogger(logger))
			ctrl := controller.New(client, controller.WithLogger(logger))
			defer ctrl.Close()

			ctrl.Update(cmd.Context(), model.ConnectionState{Connected: true, Address: address})
			ctrl.Wait()

			state := ctrl.State()
			if err := view.Render(present.New(cfg.AssetsURL).Map(state), opts); err != nil {
				return err
			}
			if failed, ok := state.(model.Failed); ok {
				logger.Debug("serve failed", zap.String("address", address), zap.String("message", failed.Message))
				return errServeFailed
			}
			return nil
		},
	}

	render.register(cmd.Flags())
	return cmd
}
