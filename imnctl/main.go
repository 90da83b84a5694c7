package main

import (
	"os"

	"github.com/spf13/cobra"

	// bucket drivers for the archive store
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/supportops/im-notices/imnctl/cmd/send"
)

var rootCmd = &cobra.Command{
	Use:          "imnctl",
	Short:        "Send human-approved incident notices from Jira tickets",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(send.SendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
