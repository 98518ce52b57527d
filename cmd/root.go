// =============================================================================
// Estados de Cuenta - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// works on the statements workbook.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledger)
//   ├── reportCmd  (ledger report)
//   ├── inspectCmd (ledger inspect)
//   ├── importCmd  (ledger import)
//   └── versionCmd (ledger version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config), or the defaults when the
//      default file is absent
//   2. Builds the logger (stderr, so stdout only carries the report)
//   3. Stores the logger in the command context
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/estados-de-cuenta/internal/config"
	"github.com/ginjaninja78/estados-de-cuenta/internal/logger"
	"github.com/ginjaninja78/estados-de-cuenta/internal/xlsxparser"
	"github.com/ginjaninja78/estados-de-cuenta/pkg/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// workbookPath overrides the configured workbook. Shared by the subcommands.
var workbookPath string

// mainConfig is the configuration loaded by PersistentPreRunE.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Estados de Cuenta - Artist statement analyzer",
	Long: `Estados de Cuenta reads the artist statements workbook, where every
worksheet is one artist's account, and extracts the artist information,
the transaction ledger and a financial summary for each of them.

Key Features:
  - Full analysis report as text, JSON or YAML, and a CSV transaction export
  - Raw workbook inspection for layout troubleshooting
  - Import of statements and transactions into Postgres
  - Concurrent worksheet extraction

Example Usage:
  ledger report                              # Analyze Estados_de_Cuenta.xlsx
  ledger report --workbook ./data --format json
  ledger inspect --rows 20                   # Show the raw worksheets
  ledger import --dry-run                    # Show what would be imported`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		mainConfig = cfg

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log := logger.WithFields(logger.New(level), map[string]interface{}{
			"command": cmd.Name(),
		})
		if cfgFile != "" && utils.FileExists(cfgFile) {
			log.Debug().Str("config", cfgFile).Msg("configuration loaded")
		}

		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&workbookPath,
		"workbook",
		"w",
		"",
		"Statements workbook, or a directory holding it (overrides the configuration)",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// openWorkbook resolves the workbook from --workbook or the configuration
// and opens it. The caller closes it.
func openWorkbook(log zerolog.Logger) (*xlsxparser.Workbook, string, error) {
	path := mainConfig.Workbook
	if workbookPath != "" {
		path = workbookPath
	}

	resolved, err := utils.ResolveWorkbook(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find workbook: %w", err)
	}

	wb, err := xlsxparser.Open(resolved)
	if err != nil {
		return nil, "", err
	}

	log.Debug().Str("workbook", resolved).Int("sheets", len(wb.SheetNames())).Msg("workbook opened")
	return wb, resolved, nil
}
