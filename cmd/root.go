package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dataprompt/dataprompt/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dataprompt",
	Short: "Package a data project into a single LLM-ready document",
	Long: `Dataprompt converts a project directory into one bounded markdown
document suitable for a language-model context window.

Large data files are reduced rather than dumped: CSVs are sampled to a
reproducible random subset, SQL dumps keep schema verbatim while capping
data rows per table, notebooks keep code and drop oversized or binary
outputs, and spreadsheets render head rows per sheet.

Examples:
  dataprompt pack .
  dataprompt pack --sample-size 50 --seed 7 ~/projects/churn-model
  dataprompt watch .`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dataprompt.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".dataprompt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DATAPROMPT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("verbose", false)
	viper.SetDefault("output", config.DefaultOutputFile)
	viper.SetDefault("sample_size", config.DefaultSampleSize)
	viper.SetDefault("seed", config.DefaultSeed)
	viper.SetDefault("max_text_lines", config.DefaultMaxTextLines)
	viper.SetDefault("sql_max_nondata_lines", 0)
	viper.SetDefault("max_sheets", config.DefaultMaxSheets)
	viper.SetDefault("max_file_size_kb", config.DefaultMaxFileSizeKB)
	viper.SetDefault("skip_exts", []string{})
	viper.SetDefault("ignore_folders", []string{})
	viper.SetDefault("ignore_files", []string{})

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
