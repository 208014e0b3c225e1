package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Modes accepted by -mode.
const (
	ModeScan   = "scan"
	ModeServe  = "serve"
	ModeExport = "export"
	ModeToken  = "token"
)

type AppFlags struct {
	Mode             string
	GlobalConfigFile string
	URLListFile      string
	URL              string
	OutputFile       string
	Subject          string
	EnvFile          string
}

// ParseFlags parses args (without the program name). Each long flag has a one
// letter alias; the long form wins when both are given.
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("phishlens", flag.ContinueOnError)
	fs.SetOutput(output)

	mode := fs.String("mode", "", "Mode to run: scan, serve, export or token")
	modeAlias := fs.String("m", "", "Alias for -mode")

	globalConfigFile := fs.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	urlListFile := fs.String("file", "", "Path to a text file with one URL per line (scan, export)")
	urlListFileAlias := fs.String("f", "", "Alias for -file")

	singleURL := fs.String("url", "", "Single URL to assess (scan)")
	singleURLAlias := fs.String("u", "", "Alias for -url")

	outputFile := fs.String("output", "", "Output file. scan writes JSON lines (default stdout), export writes parquet (default storage_config.export_path)")
	outputFileAlias := fs.String("o", "", "Alias for -output")

	subject := fs.String("subject", "", "Token subject (token) or history owner (scan)")
	subjectAlias := fs.String("s", "", "Alias for -subject")

	envFile := fs.String("env", ".env", "Dotenv file loaded before the configuration; missing files are ignored")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{
		Mode:             pick(*mode, *modeAlias),
		GlobalConfigFile: pick(*globalConfigFile, *globalConfigFileAlias),
		URLListFile:      pick(*urlListFile, *urlListFileAlias),
		URL:              pick(*singleURL, *singleURLAlias),
		OutputFile:       pick(*outputFile, *outputFileAlias),
		Subject:          pick(*subject, *subjectAlias),
		EnvFile:          *envFile,
	}

	if err := flags.validate(); err != nil {
		return AppFlags{}, err
	}
	return flags, nil
}

func (f AppFlags) validate() error {
	switch f.Mode {
	case "":
		return errors.New("-mode argument is required (scan, serve, export or token)")
	case ModeScan:
		if f.URL == "" && f.URLListFile == "" {
			return errors.New("scan mode needs -url or -file")
		}
	case ModeExport:
		if f.URLListFile == "" {
			return errors.New("export mode needs -file")
		}
	case ModeToken:
		if f.Subject == "" {
			return errors.New("token mode needs -subject")
		}
	case ModeServe:
	default:
		return fmt.Errorf("unknown mode %q", f.Mode)
	}
	return nil
}

func pick(long, alias string) string {
	if long != "" {
		return long
	}
	return alias
}
