package cmd

import (
	"fmt"
	"os"

	"github.com/bluecats/bluecats-loop-api-client/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "loop-cli",
	Short: "A CLI for the BlueCats Loop event-tracking API",
	Long: `Authenticate against a Loop endpoint, read the paginated event stream
of a tracked object, and submit event batches on behalf of edge relays.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.loop-cli.yaml)")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}
