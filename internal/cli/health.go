package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long:  "Check server health. With --wait, retry until the server answers or the wait elapses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			deadline := time.Now().Add(wait)
			for {
				start := time.Now()
				var result HealthResult
				err := client.Get("/api/v1/health", &result)
				if err == nil {
					result.LatencyMS = time.Since(start).Milliseconds()
					NewOutput(cfg.Output).Print(result)
					return nil
				}
				if !time.Now().Before(deadline) {
					if wait > 0 {
						return fmt.Errorf("server not healthy after %s: %w", wait, err)
					}
					return err
				}
				time.Sleep(250 * time.Millisecond)
			}
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "keep retrying for this long")
	return cmd
}
