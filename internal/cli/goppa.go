package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Davincible/goppa/internal/validation"
	"github.com/Davincible/goppa/pkg/gf2m"
	"github.com/Davincible/goppa/pkg/secure"
)

type GoppaResult struct {
	Profile         string `json:"profile,omitempty"`
	FieldDegree     int    `json:"m"`
	GoppaDegree     int    `json:"t"`
	FieldPolynomial string `json:"field_polynomial"`
	CodeLength      int    `json:"n"`
	Dimension       int    `json:"k"`
	Polynomial      string `json:"goppa_polynomial"`
	Encoded         string `json:"encoded"`
	SquareRootCheck bool   `json:"square_root_check"`
}

func newGoppaCommand(a *app) *cobra.Command {
	var (
		m, t    int
		profile string
	)

	cmd := &cobra.Command{
		Use:   "goppa",
		Short: "Generate a random irreducible Goppa polynomial",
		Long: `Generate a random monic irreducible polynomial g of degree t over
GF(2^m), as used for the secret key of a binary Goppa code of length 2^m
and dimension at least 2^m - m*t.

The squaring and square-root matrices of GF(2^m)[x]/g are computed and
checked against a random polynomial.`,
		Example: `  # Parameters from a profile
  goppa goppa --profile mceliece-1024

  # Small reproducible example
  goppa goppa -m 6 -t 3 --seed demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := a.cfg().Defaults
			if profile != "" {
				p, err := a.cm.GetProfile(profile)
				if err != nil {
					return err
				}
				defaults.FieldDegree, defaults.GoppaDegree = p.FieldDegree, p.GoppaDegree
			}
			if !cmd.Flags().Changed("field-degree") {
				m = defaults.FieldDegree
			}
			if !cmd.Flags().Changed("goppa-degree") {
				t = defaults.GoppaDegree
			}
			if err := validation.ValidateGoppaParams(m, t); err != nil {
				return err
			}

			src, err := a.source(cmd)
			if err != nil {
				return err
			}

			field, err := gf2m.NewField(m, src)
			if err != nil {
				return fmt.Errorf("failed to build field: %w", err)
			}
			slog.Debug("searching irreducible polynomial", "m", m, "t", t)
			g := gf2m.NewRandomIrreducible(field, t, src)
			defer g.Wipe()

			ring, err := gf2m.NewRing(field, g)
			if err != nil {
				return fmt.Errorf("failed to build ring: %w", err)
			}
			ok, err := checkSquareRoot(ring, field, t, src)
			if err != nil {
				return err
			}

			n := 1 << m
			result := GoppaResult{
				Profile:         profile,
				FieldDegree:     m,
				GoppaDegree:     t,
				FieldPolynomial: fmt.Sprintf("%x", field.Polynomial()),
				CodeLength:      n,
				Dimension:       n - m*t,
				Polynomial:      g.String(),
				Encoded:         a.encode(g.Encode()),
				SquareRootCheck: ok,
			}

			w := cmd.OutOrStdout()
			if a.json {
				return writeJSON(w, result)
			}

			fmt.Fprintln(w)
			headerColor.Fprintln(w, "=== Goppa Polynomial ===")
			if profile != "" {
				printField(w, "Profile", profile)
			}
			printField(w, "Field", fmt.Sprintf("GF(2^%d), %s", m, intTerms(field.Polynomial())))
			printField(w, "Code", fmt.Sprintf("[n=%d, k=%d, t=%d]", result.CodeLength, result.Dimension, t))
			fmt.Fprintln(w)
			sectionColor.Fprintln(w, "g(x)")
			fmt.Fprintf(w, "  %s\n\n", result.Polynomial)
			printField(w, "Encoded", result.Encoded)
			fmt.Fprintf(w, "\n%s square root matrix\n", checkMark(ok))
			return nil
		},
	}

	cmd.Flags().IntVarP(&m, "field-degree", "m", 0, "Field degree m (default from config)")
	cmd.Flags().IntVarP(&t, "goppa-degree", "t", 0, "Goppa polynomial degree t (default from config)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Named parameter profile")

	return cmd
}

// checkSquareRoot squares a random polynomial of degree t-1 modulo g and
// takes the square root again.
func checkSquareRoot(ring *gf2m.Ring, field *gf2m.Field, t int, src secure.Source) (bool, error) {
	if t < 2 {
		return true, nil
	}
	p := gf2m.NewRandomMonic(field, t-1, src)
	defer p.Wipe()
	sq, err := ring.Square(p)
	if err != nil {
		return false, err
	}
	defer sq.Wipe()
	root, err := ring.SquareRoot(sq)
	if err != nil {
		return false, err
	}
	defer root.Wipe()
	return secure.ConstantTimeCompare(root.Encode(), p.Encode()), nil
}
