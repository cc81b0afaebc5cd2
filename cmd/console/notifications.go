package main

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/hoststack/console/internal/core/domain"
	"github.com/hoststack/console/internal/core/service"
	"github.com/hoststack/console/internal/infrastructure/rest"
)

var (
	flagPage       int
	flagPerPage    int
	flagUnreadOnly bool
	flagMetrics    string
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Work with the notification feed",
}

// center builds a NotificationCenter authenticated with the current
// user session. Callers own its lifetime and must Close it.
func center(onUpdate func(service.NotificationSnapshot)) *service.NotificationCenter {
	api := rest.NewNotificationClient(app.rest, app.sessions)
	return service.NewNotificationCenter(api, app.log, onUpdate)
}

var notifListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notification history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard/notifications"); err != nil {
			return err
		}

		c := center(nil)
		defer c.Close()

		page, err := c.FetchPage(cmd.Context(), domain.ListParams{
			Page:       flagPage,
			PerPage:    flagPerPage,
			UnreadOnly: flagUnreadOnly,
		})
		if err != nil {
			return err
		}

		for _, n := range page.Notifications {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}
			fmt.Printf("%s %-22s %-16s %s\n", marker, n.ID, n.Type, n.Title)
		}
		fmt.Printf("page %d/%d, %d unread\n", page.Pagination.Page, page.Pagination.TotalPages, page.UnreadCount)
		return nil
	},
}

var notifWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the recent feed until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard/notifications"); err != nil {
			return err
		}

		c := center(func(snap service.NotificationSnapshot) {
			if snap.Err != nil || snap.Loading {
				return
			}
			fmt.Printf("%d notifications, %d unread\n", len(snap.Items), snap.UnreadCount)
		})
		defer c.Close()

		metricsAddr := flagMetrics
		if metricsAddr == "" {
			metricsAddr = app.cfg.MetricsAddr
		}
		if metricsAddr != "" {
			go serveMetrics(metricsAddr)
		}

		// Blocks until SIGINT/SIGTERM cancels the root context.
		c.Run(cmd.Context(), app.cfg.PollInterval, app.cfg.RecentLimit)
		return nil
	},
}

// serveMetrics exposes the Prometheus registry while watch runs.
func serveMetrics(addr string) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echoprometheus.NewHandler())
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		app.log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
	}
}

var notifReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard/notifications"); err != nil {
			return err
		}

		c := center(nil)
		defer c.Close()
		if err := c.MarkAsRead(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Marked read:", args[0])
		return nil
	},
}

var notifReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard/notifications"); err != nil {
			return err
		}

		c := center(nil)
		defer c.Close()
		if err := c.MarkAllAsRead(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All notifications marked read.")
		return nil
	},
}

var notifDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard/notifications"); err != nil {
			return err
		}

		c := center(nil)
		defer c.Close()
		if err := c.DeleteNotification(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted:", args[0])
		return nil
	},
}

func init() {
	notifListCmd.Flags().IntVar(&flagPage, "page", 1, "page number")
	notifListCmd.Flags().IntVar(&flagPerPage, "per-page", 20, "items per page")
	notifListCmd.Flags().BoolVar(&flagUnreadOnly, "unread", false, "only unread notifications")

	notifWatchCmd.Flags().StringVar(&flagMetrics, "metrics-addr", "", "serve Prometheus metrics on this address while watching")

	notificationsCmd.AddCommand(notifListCmd, notifWatchCmd, notifReadCmd, notifReadAllCmd, notifDeleteCmd)
}
