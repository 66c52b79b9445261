package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/querylab/pkg/models"
	"github.com/TFMV/querylab/pkg/session"
)

func newAdminCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Sample data administration (ADMIN role)",
	}
	cmd.AddCommand(newGenerateCmd(v), newStatusCmd(v))
	return cmd
}

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	defaults := models.DefaultSampleDataRequest()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample data",
		Long: `Generate sample data for SQL performance testing. This replaces all existing
sample data.

Example:
  querylab admin generate --customers 100000 --orders 1000000 --watch`,
		Args: cobra.NoArgs,
		RunE: withApp(v, session.RouteAdmin, func(cmd *cobra.Command, a *app, args []string) error {
			req := models.SampleDataRequest{}
			req.Customers, _ = cmd.Flags().GetInt("customers")
			req.Products, _ = cmd.Flags().GetInt("products")
			req.Orders, _ = cmd.Flags().GetInt("orders")
			req.ItemsPerOrder, _ = cmd.Flags().GetInt("items-per-order")
			watch, _ := cmd.Flags().GetBool("watch")

			a.render.Volume(req)

			accepted, err := a.samples.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), accepted.Message)

			if watch {
				return watchProgress(cmd, a.samples.WatchRun, a)
			}
			return nil
		}),
	}
	cmd.Flags().Int("customers", defaults.Customers, fmt.Sprintf("customers to generate (max %d)", models.MaxCustomers))
	cmd.Flags().Int("products", defaults.Products, fmt.Sprintf("products to generate (max %d)", models.MaxProducts))
	cmd.Flags().Int("orders", defaults.Orders, fmt.Sprintf("orders to generate (max %d)", models.MaxOrders))
	cmd.Flags().Int("items-per-order", defaults.ItemsPerOrder,
		fmt.Sprintf("average items per order (%d-%d)", models.MinItemsPerOrder, models.MaxItemsPerOrder))
	cmd.Flags().Bool("watch", true, "follow progress until generation finishes")
	return cmd
}

func newStatusCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sample data generation progress",
		Args:  cobra.NoArgs,
		RunE: withApp(v, session.RouteAdmin, func(cmd *cobra.Command, a *app, args []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return watchProgress(cmd, a.samples.Watch, a)
			}
			status, err := a.samples.Status(cmd.Context())
			if err != nil {
				return err
			}
			a.render.Progress(*status)
			return nil
		}),
	}
	cmd.Flags().Bool("watch", false, "follow progress until generation finishes")
	return cmd
}

type watchFunc func(ctx context.Context, interval time.Duration, onUpdate func(models.GenerationStatus)) (*models.GenerationStatus, error)

func watchProgress(cmd *cobra.Command, watch watchFunc, a *app) error {
	final, err := watch(cmd.Context(), a.cfg.PollInterval, a.render.Progress)
	if err != nil {
		return err
	}
	if final != nil && !final.IsGenerating {
		fmt.Fprintln(cmd.OutOrStdout(), "Sample data generation finished")
	}
	return nil
}
