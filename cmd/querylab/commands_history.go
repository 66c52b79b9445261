package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/querylab/pkg/errors"
	"github.com/TFMV/querylab/pkg/services"
	"github.com/TFMV/querylab/pkg/session"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse your query history",
		Args:  cobra.NoArgs,
		RunE: withApp(v, session.RouteHistory, func(cmd *cobra.Command, a *app, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			size, _ := cmd.Flags().GetInt("size")

			resp, err := a.history.Page(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			a.render.History(resp)
			return nil
		}),
	}
	cmd.Flags().Int("page", 0, "page number, starting at 0")
	cmd.Flags().Int("size", services.DefaultPageSize, "entries per page (1-100)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show one history entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(v, session.RouteHistory, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Newf(errors.CodeInvalidRequest, "invalid history id %q", args[0])
			}
			item, err := a.history.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.render.HistoryItem(item)
			return nil
		}),
	})

	return cmd
}
