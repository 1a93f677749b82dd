package cli

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wesleyorama2/k6convert/internal/config"
	"github.com/wesleyorama2/k6convert/internal/convert"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/output"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <collection>",
		Short: "Convert a Postman collection to a k6 script",
		Long: `Convert a Postman collection (JSON, or YAML with a .yaml/.yml extension)
into a k6 script.

The script is written to stdout unless --output is given. Diagnostics about
parts of the collection that are not converted go to stderr. When the
conversion fails nothing is written.

Examples:
  k6convert convert api.postman_collection.json -o script.js
  k6convert convert api.json --environment staging.json --vus 10 --duration 1m
  k6convert convert api.json -o script.js --diff`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file for the script (default: stdout)")
	flags.Int(config.KeyIterations, 0, "Script iterations option")
	flags.Int(config.KeyVUs, 0, "Script vus option")
	flags.String(config.KeyDuration, "", "Script duration option (e.g., 30s, 5m, \"1 minute\")")
	flags.StringP(config.KeyEnvironment, "e", "", "Postman environment export whose variables are included")
	flags.StringP(config.KeyGlobal, "g", "", "Postman globals export whose variables are included")
	flags.Int(config.KeyMaxRedirects, config.DefaultMaxRedirects, "Script maxRedirects option")
	flags.String(config.KeyLibs, imports.DefaultLibs, "Location of the helper libraries referenced by the script")
	flags.Bool("diff", false, "Show a unified diff against the existing output file instead of writing it")
	flags.String("format", "text", "Report format for diagnostics (text, json, yaml)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.Bool("no-color", false, "Disable colored output")

	return cmd
}

// bindSettings binds the setting flags so that an explicit flag wins over
// the environment and the settings file
func bindSettings(v *viper.Viper, cmd *cobra.Command) error {
	for _, key := range []string{
		config.KeyMaxRedirects,
		config.KeyIterations,
		config.KeyVUs,
		config.KeyDuration,
		config.KeyLibs,
		config.KeyEnvironment,
		config.KeyGlobal,
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return errors.Wrapf(err, "error binding flag %s", key)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]
	configFile, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")
	showDiff, _ := cmd.Flags().GetBool("diff")
	formatName, _ := cmd.Flags().GetString("format")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	formatter := output.GetFormatter(format, verbose, colorDisabled(stderr, noColor))

	// report prints err with the chosen formatter and marks it as printed
	report := func(err error) error {
		fmt.Fprint(stderr, formatter.FormatError(err))
		return errors.Mark(err, errReported)
	}

	if showDiff && outputPath == "" {
		return report(errors.WithHint(errors.New("--diff requires --output"), "name the script to compare against with -o"))
	}

	v, err := config.NewViper(configFile)
	if err != nil {
		return report(err)
	}
	if err := bindSettings(v, cmd); err != nil {
		return report(err)
	}
	settings, err := config.Load(v)
	if err != nil {
		return report(err)
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return report(errors.Wrap(err, "error creating logger"))
	}
	defer logger.Sync() //nolint:errcheck

	data, err := config.LoadCollection(source)
	if err != nil {
		return report(err)
	}

	result, err := convert.ConvertBytes(data,
		convert.WithSettings(settings),
		convert.WithLogger(logger.Named("convert")),
	)
	if err != nil {
		return report(err)
	}

	switch {
	case showDiff:
		existing, err := os.ReadFile(outputPath)
		if err != nil && !os.IsNotExist(err) {
			return report(errors.Wrapf(err, "error reading %s", outputPath))
		}
		diff := udiff.Unified(outputPath, outputPath+" (generated)", string(existing), result.Script)
		fmt.Fprint(stdout, output.NewFormatter(verbose, colorDisabled(stdout, noColor)).FormatDiff(diff))
		return nil

	case outputPath != "":
		if err := os.WriteFile(outputPath, []byte(result.Script), 0o644); err != nil {
			return report(errors.Wrapf(err, "error writing %s", outputPath))
		}

	default:
		fmt.Fprint(stdout, result.Script)
	}

	fmt.Fprint(stderr, formatter.FormatResult(output.NewReport(source, outputPath, result.Diagnostics)))
	return nil
}
