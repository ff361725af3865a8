// Package cfg provides configuration and command-line interface setup for stillcast.
package cfg

import (
	"fmt"
	"strings"

	"stillcast/internal/domain/consts"
	"stillcast/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   consts.ProgramName + " [url]",
	Short: "stillcast downloads media and assembles still-frame videos from audio.",
	Long: "stillcast wraps yt-dlp and ffmpeg. Run with no arguments for the interactive menu,\n" +
		"or pass a URL to download it directly.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("help").Changed {
			return nil
		}
		if len(args) == 1 {
			viper.Set(keys.TargetURL, args[0])
		}
		viper.Set(keys.Execute, true)
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run first-time setup (download directory, shell alias, external tools).",
	Run: func(cmd *cobra.Command, args []string) {
		viper.Set(keys.RunSetup, true)
		viper.Set(keys.Execute, true)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the managed yt-dlp binary.",
	Run: func(cmd *cobra.Command, args []string) {
		viper.Set(keys.RunUpdate, true)
		viper.Set(keys.Execute, true)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the program version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", consts.ProgramName, consts.Version)
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands() error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(strings.ToUpper(consts.ProgramName))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := initProgramFlags(rootCmd); err != nil {
		return err
	}

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
