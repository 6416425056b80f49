package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osa-dev/ucoa-audit/internal/audit"
	"github.com/osa-dev/ucoa-audit/internal/config"
	"github.com/osa-dev/ucoa-audit/internal/runlog"
	"github.com/osa-dev/ucoa-audit/internal/store"
	"github.com/osa-dev/ucoa-audit/internal/ucoa"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

func newAuditCommand() *cobra.Command {
	var configPath string
	var outDir string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the compliance audit over all entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), configPath, outDir)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "ucoa-audit.yaml", "config file")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides config)")

	return cmd
}

func runAudit(ctx context.Context, configPath, outDir string) error {
	log := newLogger()
	started := time.Now().UTC()
	runID := uuid.NewString()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Paths.OutputDir
	}

	// Missing or unparseable reference data halts the run before any
	// entity is evaluated.
	codes, err := ucoa.LoadWorkbook(cfg.Paths.Workbook, cfg.Workbook.Sheets, cfg.Supplement)
	if err != nil {
		return fmt.Errorf("loading reference codesets: %w", err)
	}
	funds, functions, expense, revenue := codes.Sizes()
	log.WithFields(logrus.Fields{
		"run":      runID,
		"funds":    funds,
		"functs":   functions,
		"exp_acct": expense,
		"rev_acct": revenue,
	}).Info("reference codesets loaded")

	st, err := store.New(cfg.Paths.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	entities, err := st.ListEntities(ctx)
	if err != nil {
		return err
	}

	eval := validate.NewEvaluator(codes, cfg.Window, cfg.Exempt)
	agg := audit.NewAggregator(st, eval, log)

	var allRows []audit.BatchRow
	var summaries []audit.SummaryRow
	for _, entity := range entities {
		rows, summary, err := agg.Aggregate(ctx, entity)
		if err != nil {
			return err
		}
		allRows = append(allRows, rows...)
		summaries = append(summaries, summary)
	}

	report := audit.Assemble(allRows, summaries)
	if err := writeReport(outDir, report); err != nil {
		return err
	}

	entry := runlog.Entry{
		RunID:      runID,
		StartedAt:  started,
		Entities:   len(entities),
		Batches:    len(allRows) - placeholders(allRows),
		Violations: len(report.Detail),
		OutputDir:  outDir,
	}
	if err := runlog.Append(cfg.Paths.LogDir, entry); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run":               runID,
		"entities":          len(entities),
		"batches":           entry.Batches,
		"violating_batches": len(report.Detail),
		"violating_orgs":    len(report.Summary),
		"out":               outDir,
	}).Info("audit complete")
	return nil
}

func writeReport(dir string, report audit.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"master.csv", func(f *os.File) error { return audit.WriteDetail(f, report.Master) }},
		{"violations.csv", func(f *os.File) error { return audit.WriteDetail(f, report.Detail) }},
		{"summary.csv", func(f *os.File) error { return audit.WriteSummary(f, report.Summary) }},
		{"listings.csv", func(f *os.File) error { return audit.WriteListings(f, report.Listings) }},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", file.name, err)
		}
		if err := file.write(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", file.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", file.name, err)
		}
	}
	return nil
}

func placeholders(rows []audit.BatchRow) int {
	n := 0
	for _, r := range rows {
		if r.Batch == nil {
			n++
		}
	}
	return n
}
