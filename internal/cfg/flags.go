package cfg

import (
	"fmt"

	"stillcast/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initProgramFlags sets program-wide flags and binds them to viper.
func initProgramFlags(rootCmd *cobra.Command) error {

	rootCmd.PersistentFlags().StringP(keys.DownloadDir, "d", "", "Directory to place finished downloads in")
	if err := viper.BindPFlag(keys.DownloadDir, rootCmd.PersistentFlags().Lookup(keys.DownloadDir)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.DownloadDir, err)
	}

	rootCmd.PersistentFlags().StringP(keys.CookiePath, "c", "", "Path to a Netscape-format cookie file")
	if err := viper.BindPFlag(keys.CookiePath, rootCmd.PersistentFlags().Lookup(keys.CookiePath)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.CookiePath, err)
	}

	rootCmd.PersistentFlags().String(keys.CookieSource, "", "Browser to extract cookies from (e.g. firefox, chrome)")
	if err := viper.BindPFlag(keys.CookieSource, rootCmd.PersistentFlags().Lookup(keys.CookieSource)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.CookieSource, err)
	}

	rootCmd.PersistentFlags().StringP(keys.OutputTemplate, "o", "", "yt-dlp output template for downloaded files")
	if err := viper.BindPFlag(keys.OutputTemplate, rootCmd.PersistentFlags().Lookup(keys.OutputTemplate)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.OutputTemplate, err)
	}

	rootCmd.PersistentFlags().BoolP(keys.AudioOnly, "a", false, "Download audio only")
	if err := viper.BindPFlag(keys.AudioOnly, rootCmd.PersistentFlags().Lookup(keys.AudioOnly)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.AudioOnly, err)
	}

	rootCmd.PersistentFlags().BoolP(keys.SingleFrame, "s", false, "Download audio and assemble a still-frame video")
	if err := viper.BindPFlag(keys.SingleFrame, rootCmd.PersistentFlags().Lookup(keys.SingleFrame)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.SingleFrame, err)
	}

	rootCmd.PersistentFlags().Int(keys.DebugLevel, 0, "Debug level (0-3)")
	if err := viper.BindPFlag(keys.DebugLevel, rootCmd.PersistentFlags().Lookup(keys.DebugLevel)); err != nil {
		return fmt.Errorf("failed to bind flag %q: %w", keys.DebugLevel, err)
	}

	return nil
}
