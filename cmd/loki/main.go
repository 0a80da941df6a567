package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/corrector"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/document"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/orgprofile"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/render"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema/validate"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// correctFlags holds the parsed flags for the correct command.
type correctFlags struct {
	findings     string
	docType      string
	multiLevel   bool
	contextAware bool
	format       string
	out          string
	correctedOut string
	patchOut     string
	orgPath      string
	rulesDir     string
	strict       bool
	verbose      bool
}

func main() {
	root := &cobra.Command{
		Use:     "loki",
		Short:   "Auto-correct business documents against regulatory gate failures",
		Long:    "loki rewrites documents so flagged compliance violations no longer fire, producing a corrected document plus a machine-checkable change ledger.",
		Version: version,
	}

	root.AddCommand(newCorrectCmd(), newWatchCmd(), newRulesCmd())

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newCorrectCmd() *cobra.Command {
	var flags correctFlags
	cmd := &cobra.Command{
		Use:   "correct <document>",
		Short: "Apply corrections for a set of gate failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(args[0], flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.findings, "findings", "", "JSON file of gate-failure records (required)")
	f.StringVar(&flags.docType, "type", "", "Document type: financial, privacy, tax, nda, employment (inferred when omitted)")
	f.BoolVar(&flags.multiLevel, "multi-level", false, "Cascade through all priority levels instead of stopping after the first applicable one")
	f.BoolVar(&flags.contextAware, "context-aware", false, "Restrict rules to those applicable to the document type")
	f.StringVar(&flags.format, "format", "json", "Output format: json or md")
	f.StringVar(&flags.out, "out", "", "Write the report to file instead of stdout")
	f.StringVar(&flags.correctedOut, "corrected-out", "", "Write the corrected document text to this file")
	f.StringVar(&flags.patchOut, "patch-out", "", "Write a diff-match-patch of original → corrected to this file")
	f.StringVar(&flags.orgPath, "org", "", "YAML org profile used to parameterise corrective snippets")
	f.StringVar(&flags.rulesDir, "rules", "", "Directory of additional YAML rule catalogs")
	f.BoolVar(&flags.strict, "strict", false, "Exit 2 if any gate failure could not be corrected")
	f.BoolVar(&flags.verbose, "verbose", false, "Log processing steps to stderr")
	cobra.CheckErr(cmd.MarkFlagRequired("findings"))
	return cmd
}

func runCorrect(docPath string, flags correctFlags) error {
	log := newLogger(flags.verbose)
	defer log.Sync() //nolint:errcheck

	if err := validate.DocumentType(schema.DocumentType(flags.docType)); err != nil {
		return codeError(3, "%s", err)
	}

	log.Info("loading document", zap.String("path", docPath))
	doc, err := document.Load(docPath)
	if err != nil {
		return codeError(3, "loading document: %s", err)
	}

	raw, err := os.ReadFile(flags.findings)
	if err != nil {
		return codeError(3, "reading findings: %s", err)
	}
	failures, err := validate.ParseFailures(raw)
	if err != nil {
		return codeError(3, "%s", err)
	}
	log.Info("loaded gate failures", zap.Int("count", len(failures)))

	org, err := loadOrg(flags.orgPath)
	if err != nil {
		return codeError(3, "%s", err)
	}

	reg, err := buildRegistry(flags.rulesDir)
	if err != nil {
		return codeError(4, "building registry: %s", err)
	}
	log.Info("registry ready", zap.String("hash", reg.Hash()))

	opts := schema.AdvancedOptions{MultiLevel: flags.multiLevel, ContextAware: flags.contextAware}
	result, err := corrector.New(reg, org).Correct(doc.Raw, failures, schema.DocumentType(flags.docType), opts)
	if err != nil {
		return codeError(3, "%s", err)
	}
	log.Info("correction complete",
		zap.Int("changes", len(result.Changes)),
		zap.Int("skipped", len(result.Skipped)),
		zap.String("content_hash", result.ContentHash))

	if flags.correctedOut != "" {
		if err := os.WriteFile(flags.correctedOut, []byte(result.CorrectedText), 0o644); err != nil {
			return codeError(3, "writing corrected document: %s", err)
		}
	}
	if flags.patchOut != "" {
		diffText := render.Diff(doc.Raw, result.CorrectedText)
		if err := os.WriteFile(flags.patchOut, []byte(diffText), 0o644); err != nil {
			// Patches are advisory; the report still goes out.
			fmt.Fprintf(os.Stderr, "WARN: patch write failed: %s\n", err)
		}
	}

	if err := writeReport(result, flags.format, flags.out); err != nil {
		return err
	}

	if flags.strict && len(result.Skipped) > 0 {
		return codeError(2, "%d gate failure(s) could not be corrected", len(result.Skipped))
	}
	return nil
}

func writeReport(result *schema.CorrectionResult, format, out string) error {
	renderer, err := render.NewRenderer(format)
	if err != nil {
		return codeError(3, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(result)
	if err != nil {
		return codeError(3, "rendering output: %s", err)
	}

	if out != "" {
		if err := os.WriteFile(out, outputBytes, 0o644); err != nil {
			return codeError(3, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := os.Stdout.Write(outputBytes); err != nil {
		return codeError(3, "writing output: %s", err)
	}
	if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

// buildRegistry combines the builtin catalog with any user-supplied
// catalog directory, in directory order after the builtins.
func buildRegistry(rulesDir string) (*rules.Registry, error) {
	catalogs := []rules.Catalog{rules.BuiltinCatalog()}
	if rulesDir != "" {
		extra, err := rules.LoadDir(rulesDir)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, extra...)
	}
	return rules.NewRegistry(catalogs...)
}

func loadOrg(path string) (*orgprofile.Profile, error) {
	if path == "" {
		return orgprofile.Default(), nil
	}
	return orgprofile.Load(path)
}

// newLogger returns a development logger in verbose mode, otherwise a nop.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
