package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cqbot",
	Short: "cqbot - a small group chat bot for OneBot gateways",
	Long: `cqbot connects to a OneBot (CQHTTP) websocket gateway, answers chat
commands and arithmetic, and posts a weekly group reminder.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
