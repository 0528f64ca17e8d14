package cli

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Davincible/goppa/internal/validation"
)

var (
	headerColor  = color.New(color.FgYellow, color.Bold)
	okColor      = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	sectionColor = color.New(color.FgCyan, color.Bold)
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (a *app) encode(b []byte) string {
	if a.encoding == "base64" {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

func (a *app) decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if a.encoding == "base64" {
		return base64.StdEncoding.DecodeString(s)
	}
	if err := validation.ValidateHex(s); err != nil {
		return nil, err
	}
	return hex.DecodeString(s)
}

// readInput returns args[0], or one line from stdin, prompting when stdin
// is a terminal.
func readInput(cmd *cobra.Command, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return validation.SanitizeInput(args[0]), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = validation.SanitizeInput(line)
	if line == "" {
		return "", fmt.Errorf("no input given")
	}
	return line, nil
}

// terminalWidth returns the width of w if it is a terminal, else 80.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// polyTerms renders the GF(2) polynomial with bit i the coefficient of
// x^i as "x^8 + x^4 + x^3 + x + 1".
func polyTerms(bitAt func(i int) bool, degree int) string {
	var terms []string
	for i := degree; i >= 0; i-- {
		if !bitAt(i) {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", i))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}

func intTerms(p int) string {
	d := -1
	for v := p; v > 0; v >>= 1 {
		d++
	}
	return polyTerms(func(i int) bool { return p>>uint(i)&1 == 1 }, d)
}

func checkMark(ok bool) string {
	if ok {
		return okColor.Sprint("✓")
	}
	return failColor.Sprint("✗")
}

func printField(w io.Writer, name string, value any) {
	fmt.Fprintf(w, "  %-18s %v\n", name+":", value)
}
