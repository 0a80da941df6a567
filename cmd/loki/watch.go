package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/corrector"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/document"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/rules"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema"
	"github.com/Johnobhoy88/loki-interceptor-sub007/internal/schema/validate"
)

// watchFlags holds the parsed flags for the watch command.
type watchFlags struct {
	findings     string
	docType      string
	multiLevel   bool
	contextAware bool
	correctedOut string
	orgPath      string
	rulesDir     string
	verbose      bool
}

func newWatchCmd() *cobra.Command {
	var flags watchFlags
	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Re-correct a document whenever its rule catalogs change",
		Long:  "watch monitors the catalog directory and re-runs correction after every successful registry reload. Registry replacement is atomic: a correction in flight keeps the rule set it started with.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.findings, "findings", "", "JSON file of gate-failure records (required)")
	f.StringVar(&flags.docType, "type", "", "Document type (inferred when omitted)")
	f.BoolVar(&flags.multiLevel, "multi-level", false, "Cascade through all priority levels")
	f.BoolVar(&flags.contextAware, "context-aware", false, "Restrict rules to those applicable to the document type")
	f.StringVar(&flags.correctedOut, "corrected-out", "", "Write the corrected document text here after each run")
	f.StringVar(&flags.orgPath, "org", "", "YAML org profile")
	f.StringVar(&flags.rulesDir, "rules", "", "Directory of YAML rule catalogs to watch (required)")
	f.BoolVar(&flags.verbose, "verbose", false, "Log processing steps to stderr")
	cobra.CheckErr(cmd.MarkFlagRequired("findings"))
	cobra.CheckErr(cmd.MarkFlagRequired("rules"))
	return cmd
}

func runWatch(docPath string, flags watchFlags) error {
	log := newLogger(flags.verbose)
	defer log.Sync() //nolint:errcheck

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
	org, err := loadOrg(flags.orgPath)
	if err != nil {
		return codeError(3, "%s", err)
	}

	build := func() (*rules.Registry, error) {
		return buildRegistry(flags.rulesDir)
	}
	reg, err := build()
	if err != nil {
		return codeError(4, "building registry: %s", err)
	}
	store := rules.NewStore(reg)

	opts := schema.AdvancedOptions{MultiLevel: flags.multiLevel, ContextAware: flags.contextAware}
	runOnce := func(current *rules.Registry) {
		result, err := corrector.New(current, org).Correct(doc.Raw, failures, schema.DocumentType(flags.docType), opts)
		if err != nil {
			log.Error("correction failed", zap.Error(err))
			return
		}
		log.Info("correction complete",
			zap.Int("changes", len(result.Changes)),
			zap.Int("skipped", len(result.Skipped)),
			zap.String("content_hash", result.ContentHash),
			zap.String("registry_hash", result.RegistryHash))
		if flags.correctedOut != "" {
			if err := os.WriteFile(flags.correctedOut, []byte(result.CorrectedText), 0o644); err != nil {
				log.Error("writing corrected document", zap.Error(err))
			}
		}
	}
	runOnce(store.Current())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = rules.Watch(ctx, flags.rulesDir, store, build, runOnce, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		return codeError(4, "watch: %s", err)
	}
	return nil
}
