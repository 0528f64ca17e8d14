package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Davincible/goppa/internal/validation"
	"github.com/Davincible/goppa/pkg/config"
	"github.com/Davincible/goppa/pkg/secure"
)

// app carries state shared by all commands of one invocation.
type app struct {
	cm       *config.ConfigManager
	verbose  bool
	json     bool
	seed     string
	encoding string
}

func (a *app) cfg() *config.Config {
	return a.cm.GetConfig()
}

// source returns the randomness for this run: a SHAKE256 stream when a
// seed is given on the command line or in the config, else crypto/rand.
func (a *app) source(cmd *cobra.Command) (secure.Source, error) {
	seed := a.cfg().Defaults.Seed
	if cmd.Flags().Changed("seed") {
		seed = a.seed
	}
	if err := validation.ValidateSeed(seed); err != nil {
		return nil, err
	}
	if seed == "" {
		return secure.DefaultSource(), nil
	}
	slog.Debug("using deterministic randomness", "seed_length", len(seed))
	return secure.NewSeededSource([]byte(seed)), nil
}

// NewRootCommand assembles the goppa command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "goppa",
		Short: "Finite-field algebra for code-based cryptography",
		Long: `Goppa is a toolbox for the algebra behind McEliece-style code-based
cryptosystems.

Features:
- Small binary fields GF(2^m) and irreducible polynomial search
- Random irreducible Goppa polynomials with square-root matrices
- Binary extension fields GF(2^n) in polynomial and optimal normal basis
- Change-of-basis conversion between representations
- Random scrambling matrices and permutations with their inverses

All random choices can be made reproducible with --seed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}

			cm, err := config.NewConfigManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cm = cm

			if !cmd.Flags().Changed("encoding") {
				a.encoding = a.cfg().Defaults.Encoding
			}
			if err := validation.ValidateEncoding(a.encoding); err != nil {
				return err
			}

			setupColor(cmd, a.cfg().UI.UseColor)
			return nil
		},
	}

	rootCmd.AddCommand(
		newFieldCommand(a),
		newIrreducibleCommand(a),
		newGoppaCommand(a),
		newScrambleCommand(a),
		newPermCommand(a),
		newConvertCommand(a),
		newConfigCommand(a),
	)

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&a.json, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&a.seed, "seed", "", "Seed for reproducible randomness")
	rootCmd.PersistentFlags().StringVar(&a.encoding, "encoding", "hex", "Binary output encoding (hex or base64)")

	return rootCmd
}

// setupColor disables colour unless enabled in the config and writing to a
// terminal.
func setupColor(cmd *cobra.Command, enabled bool) {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !enabled || !ok || !term.IsTerminal(int(f.Fd())) {
		color.NoColor = true
	}
}
