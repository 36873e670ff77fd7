// Package menu asks the user which tier to compare when none was given.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moltools-cli/internal/catalog"
	"github.com/KaramelBytes/moltools-cli/internal/utils"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Choices are the tiers offered, in display order. The last one is the default.
var Choices = []catalog.Tier{catalog.Nano, catalog.Small, catalog.Medium, catalog.Large}

// Title names the menu in prompts.
const Title = "Calculation Comparison"

// Default is selected for unrecognized or empty answers.
func Default() catalog.Tier { return Choices[len(Choices)-1] }

// interactiveSelect is replaced in tests.
var interactiveSelect = huhSelect

// ChooseTier prompts on out and reads the answer from in. Terminals get an
// interactive select; anything else is read as a 1-based option number or a
// tier name. Answers that match nothing fall back to Default and are reported
// through warn.
func ChooseTier(in io.Reader, out io.Writer, warn func(format string, args ...any)) (catalog.Tier, error) {
	if IsTerminal(in) {
		return interactiveSelect(in, out)
	}
	fmt.Fprint(out, Render(Title, Choices))
	fmt.Fprintf(out, "Please select a data set for %s: ", Title)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("read selection: %w", err)
	}
	fmt.Fprintln(out)
	return Parse(line, warn), nil
}

// Parse interprets one answer line.
func Parse(line string, warn func(format string, args ...any)) catalog.Tier {
	v := strings.TrimSpace(line)
	if v == "" {
		return Default()
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= len(Choices) {
			return Choices[n-1]
		}
	} else {
		for _, t := range Choices {
			if strings.EqualFold(v, t.String()) {
				return t
			}
		}
	}
	if warn != nil {
		warn("unrecognized selection %q; using %s", v, Default())
	}
	return Default()
}

const (
	menuWidth   = 30
	optionWidth = 10
)

// Render draws the boxed option table shown on non-terminal input.
func Render(title string, tiers []catalog.Tier) string {
	var b strings.Builder
	rule := "\t+" + strings.Repeat("-", menuWidth) + "+\n"
	b.WriteString(rule)
	b.WriteString("\t|" + utils.Center(strings.ToUpper(title)+" MENU", menuWidth) + "|\n")
	b.WriteString(rule)
	b.WriteString("\t|" + utils.Center("Option", optionWidth) + "|" + utils.Center("Data Set", menuWidth-optionWidth-1) + "|\n")
	b.WriteString("\t|" + strings.Repeat("-", optionWidth) + "+" + strings.Repeat("-", menuWidth-optionWidth-1) + "|\n")
	for i, t := range tiers {
		b.WriteString("\t|" + utils.Center(strconv.Itoa(i+1), optionWidth) + "| " +
			utils.PadRight(t.String(), menuWidth-optionWidth-2) + "|\n")
	}
	b.WriteString(rule)
	return b.String()
}

func describe(t catalog.Tier) string {
	c := catalog.ForTier(t)
	return fmt.Sprintf("%-7s %d method(s) x %d basis set(s)", t, c.MethodCount(), c.BasisCount())
}

// IsTerminal reports whether in is an interactive terminal.
func IsTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func huhSelect(in io.Reader, out io.Writer) (catalog.Tier, error) {
	choice := Default()
	opts := make([]huh.Option[catalog.Tier], 0, len(Choices))
	for _, t := range Choices {
		opts = append(opts, huh.NewOption(describe(t), t))
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[catalog.Tier]().
				Title("Please select a data set for " + Title).
				Options(opts...).
				Value(&choice),
		),
	).WithInput(in).WithOutput(out).Run()
	if err != nil {
		return Default(), fmt.Errorf("tier menu: %w", err)
	}
	return choice, nil
}
