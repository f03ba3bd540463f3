package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cvforge/cvforge/internal/version"
)

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			pr := newPrinter()
			pr.Information("cvforge %s (%s)", version.Get(), version.Platform())
			if latest := version.CheckLatest(2 * time.Second); latest != "" && latest != version.Get() {
				pr.Warning("A newer version is available: %s", latest)
			}
		},
	}
	rootCmd.AddCommand(versionCmd)
}
