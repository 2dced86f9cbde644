// =============================================================================
// I&C Cargo Billing Tool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that 'generate' and 'version' are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (icbill)
//   ├── generateCmd (icbill generate)
//   └── versionCmd (icbill version)
//
// The root command owns the global flags (--config, --verbose) and sets up
// the structured logger before any subcommand runs.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iccargo/billing-tool/internal/config"
)

// cfgFile holds the path to the run configuration file.
// It can be overridden with the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// log is the application logger, configured in setupLogger before any
// subcommand runs.
var log zerolog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "icbill",
	Short: "I&C Cargo billing tool - turn shipping manifests into invoices",
	Long: `icbill converts a shipping-manifest spreadsheet into per-customer
PDF invoices, a WhatsApp notification list, and a summary spreadsheet.

Rows are grouped per customer (phone number first, then customer name, then
customer id), shipment volumes are summed per customer, and the billing
formula is applied: volume times the USD/CBM rate, with a fixed $10 minimum
charge for shipments under 0.05 CBM.

Example Usage:
  icbill generate --input "CONTAINER LIST.xlsx" --rate 240
  icbill generate --input list.xlsx --rate 240 --other-cost 15 --out ./bills
  icbill generate --input list.xlsx --rate 240 --dry-run`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the run configuration file (optional, defaults apply without one)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// setupLogger builds the application logger from the environment and the
// --verbose flag. Called by subcommands that actually do work, so that
// 'icbill version' stays quiet.
func setupLogger(env *config.Env) {
	var out = zerolog.New(os.Stderr)
	if env.LogFormat != "json" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	level := config.ParseLevel(env.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}

	log = out.With().Timestamp().Logger().Level(level)
}
