package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Davincible/goppa/internal/validation"
	"github.com/Davincible/goppa/pkg/gf2m"
	"github.com/Davincible/goppa/pkg/gf2x"
)

type IrreducibleResult struct {
	Polynomial  string `json:"polynomial"`
	Degree      int    `json:"degree"`
	Irreducible bool   `json:"irreducible"`
	Method      string `json:"method"`
}

func newIrreducibleCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "irreducible [hex]",
		Short: "Test a GF(2) polynomial for irreducibility",
		Long: `Test whether a polynomial over GF(2), given as a hex integer with bit i
the coefficient of x^i, is irreducible. Polynomials of degree up to 31
use the word-sized ring arithmetic, larger ones the IEEE 1363 A.5.5
test. Without an argument the polynomial is read from stdin.`,
		Example: `  goppa irreducible 11b
  echo 800000000000000000000000000000000000000c9 | goppa irreducible`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args, "Polynomial (hex): ")
			if err != nil {
				return err
			}
			v, err := validation.ParsePolynomial(input)
			if err != nil {
				return err
			}

			result := IrreducibleResult{
				Polynomial: v.Text(16),
				Degree:     v.BitLen() - 1,
			}
			if v.BitLen() <= 32 {
				result.Irreducible = gf2m.IsIrreducible(int(v.Int64()))
				result.Method = "ring"
			} else {
				result.Irreducible = gf2x.FromBigInt(v.BitLen(), v).IsIrreducible()
				result.Method = "ieee1363"
			}

			w := cmd.OutOrStdout()
			if a.json {
				return writeJSON(w, result)
			}

			p := gf2x.FromBigInt(v.BitLen(), v)
			fmt.Fprintln(w)
			printField(w, "Polynomial", polyTerms(p.TestBit, result.Degree))
			printField(w, "Degree", result.Degree)
			if result.Irreducible {
				fmt.Fprintf(w, "\n%s irreducible\n", checkMark(true))
			} else {
				fmt.Fprintf(w, "\n%s reducible\n", checkMark(false))
			}
			return nil
		},
	}

	return cmd
}
