package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/symc/pkg/cli"
	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/expr"
	symErrors "mercator-hq/symc/pkg/expr/errors"
)

var convertFlags struct {
	file        string
	noTransform bool
	guard       bool
	spacing     bool
	power       string
	noCache     bool
	format      string
}

var convertCmd = &cobra.Command{
	Use:   "convert [EXPR...]",
	Short: "Convert expressions to C",
	Long: `Convert one or more expressions to C expression text.

Each argument is converted separately. With --file the whole file is read as
one expression; "-" reads standard input.

Examples:
  # FullForm input
  symc convert "Times[Plus[a, b], c]"

  # Infix input, keep every parenthesis the parser recorded
  symc convert "-(x * (-1))" --no-transform

  # Render powers as pow() calls
  symc convert "x^2 + 1" --power pow

  # Structured output
  symc convert "a - b" "a / b" --format json`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertFlags.file, "file", "f", "", `file holding one expression ("-" for stdin)`)
	convertCmd.Flags().BoolVar(&convertFlags.noTransform, "no-transform", false, "skip transform passes")
	convertCmd.Flags().BoolVar(&convertFlags.guard, "guard", false, "add parentheses required by operator precedence")
	convertCmd.Flags().BoolVar(&convertFlags.spacing, "spacing", false, "put spaces around binary operators")
	convertCmd.Flags().StringVar(&convertFlags.power, "power", "", `render Power as a call to this function (e.g. "pow")`)
	convertCmd.Flags().BoolVar(&convertFlags.noCache, "no-cache", false, "bypass the conversion cache")
	convertCmd.Flags().StringVar(&convertFlags.format, "format", "text", "output format: text, json, yaml, csv")
}

// conversions is the structured output of convert.
type conversions []*expr.Result

func (c conversions) Header() []string { return []string{"expression", "output"} }

func (c conversions) Rows() [][]string {
	rows := make([][]string, len(c))
	for i, r := range c {
		rows[i] = []string{r.Expression, r.Output}
	}
	return rows
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(convertFlags.format)
	if err != nil {
		return err
	}
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}

	inputs := append([]string(nil), args...)
	if convertFlags.file != "" {
		text, err := readExpressionFile(cmd, convertFlags.file)
		if err != nil {
			return cli.NewCommandError("convert", err)
		}
		inputs = append(inputs, text)
	}
	if len(inputs) == 0 {
		return cli.NewConfigError("args", "no expression given (pass EXPR arguments or --file)")
	}

	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := applyConvertFlags(loaded)

	a, err := newApp(cfg, !convertFlags.noCache)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	errs := symErrors.NewErrorList()
	results := make(conversions, 0, len(inputs))
	for _, in := range inputs {
		res, err := a.conv.Convert(ctx, in)
		if err != nil {
			errs.AddWithLabel(fmt.Sprintf("%q", in), err)
			continue
		}
		results = append(results, res)
	}

	out := stdout(cmd)
	if format == cli.FormatText {
		for _, r := range results {
			fmt.Fprintln(out, r.Output)
		}
	} else if err := formatter.FormatTo(out, results); err != nil {
		return cli.NewCommandError("convert", err)
	}

	if errs.HasErrors() {
		return cli.NewCommandError("convert", errs)
	}
	return nil
}

// applyConvertFlags returns a copy of cfg with the command-line overrides.
func applyConvertFlags(cfg *config.Config) *config.Config {
	c := *cfg
	if convertFlags.noTransform {
		c.Transform.Enabled = false
	}
	if convertFlags.guard {
		c.Codegen.PrecedenceGuard = true
	}
	if convertFlags.spacing {
		c.Codegen.Spacing = true
	}
	if convertFlags.power != "" {
		c.Codegen.PowerFunction = convertFlags.power
	}
	return &c
}

func readExpressionFile(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		in := io.Reader(os.Stdin)
		if cmd != nil {
			in = cmd.InOrStdin()
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", &symErrors.Error{
			Type:    symErrors.ErrorTypeIO,
			Message: fmt.Sprintf("Failed to read expression file %s", path),
			Err:     err,
		}
	}
	return strings.TrimSpace(string(data)), nil
}
