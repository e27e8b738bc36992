package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"smbsync/config"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "smbsync",
	Short: "Incremental record synchronizer for remote file shares",
	Long: `smbsync synchronizes multi-file records from a remote shared-file store
to an HTTP ingestion endpoint. Related files sharing a name-derived
identifier are grouped, gated on completeness (.json plus .pdf), staged,
and posted one file at a time. A persisted watermark limits each run to
entries written since the previous successful run.
Configuration is loaded from .env file or environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if isVerbose(cmd) {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().String("source", "", "Override source backend from config (smb or s3)")
	rootCmd.PersistentFlags().String("folder-path", "/", "Path inside the share or bucket to process")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func getFolderPath(cmd *cobra.Command) string {
	folder, _ := cmd.Flags().GetString("folder-path")
	if folder == "" {
		return "/"
	}
	return folder
}

// applySourceOverrides copies the loaded config and folds per-command flag
// values into it, so flags win over environment configuration.
func applySourceOverrides(cmd *cobra.Command) *config.Config {
	effective := *cfg

	if v, _ := cmd.Flags().GetString("source"); v != "" {
		effective.SourceBackend = v
	}
	if v, _ := cmd.Flags().GetString("server"); v != "" {
		effective.SMBServer = v
	}
	if v, _ := cmd.Flags().GetString("share"); v != "" {
		effective.SMBShare = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		effective.SMBUser = v
	}
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		effective.SMBPassword = v
	}
	if v, _ := cmd.Flags().GetString("domain"); v != "" {
		effective.SMBDomain = v
	}
	if v, _ := cmd.Flags().GetString("post-url"); v != "" {
		effective.PostURL = v
	}

	return &effective
}

// deliveryTimeout resolves the per-request HTTP timeout: an explicit
// --timeout flag wins, otherwise the configured HTTP_TIMEOUT_SECONDS applies.
func deliveryTimeout(cmd *cobra.Command, c *config.Config) time.Duration {
	seconds, _ := cmd.Flags().GetInt("timeout")
	if !cmd.Flags().Changed("timeout") && c.HTTPTimeoutSeconds > 0 {
		seconds = c.HTTPTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// sourceLabel names the remote store for summaries and logs.
func sourceLabel(c *config.Config) string {
	if c.SourceBackend == "s3" {
		return "s3://" + c.BucketName
	}
	return "smb://" + c.SMBServer + "/" + c.SMBShare
}
