// Markoshka drives a 20x2 character display with rotating motivational
// phrases.
//
// The daemon rotates phrases from a catalogue in several selection modes,
// shows a clock/weather summary on demand, and is controlled by two
// physical buttons (or their simulated equivalents: the terminal preview
// and the websocket mirror).
//
// Usage:
//
//	markoshka run [flags]
//	markoshka preview [flags]
//
// See 'markoshka run --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markoshka/markoshka/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "markoshka",
	Short: "Markoshka motivational display",
	Long: `Markoshka drives a 20x2 character display (PD2800 serial VFD, I2C
character LCD, or a console/terminal stand-in) with rotating motivational
phrases.

A short press of the primary button cycles the selection mode (sequential,
random, by category); a long press pins the next category. The secondary
button toggles a clock/weather summary. Without hardware, use 'markoshka
preview' for an interactive terminal simulation, or enable the websocket
mirror to watch and control the display remotely.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("markoshka %s (commit: %s)\n", version.Version, version.Commit)
	},
}
