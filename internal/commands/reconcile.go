package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osa-dev/ucoa-audit/internal/config"
	"github.com/osa-dev/ucoa-audit/internal/reconcile"
	"github.com/osa-dev/ucoa-audit/internal/store"
)

func newReconcileCommand() *cobra.Command {
	var configPath string
	var crmPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Diff entity identifiers between the upload system and the CRM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, configPath, crmPath, outPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "ucoa-audit.yaml", "config file")
	cmd.Flags().StringVar(&crmPath, "crm", "", "CRM entity export CSV (required)")
	_ = cmd.MarkFlagRequired("crm")
	cmd.Flags().StringVar(&outPath, "out", "", "result file (default stdout)")

	return cmd
}

func runReconcile(cmd *cobra.Command, configPath, crmPath, outPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Paths.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	entities, err := st.ListEntities(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Open(crmPath)
	if err != nil {
		return fmt.Errorf("opening CRM export: %w", err)
	}
	defer f.Close()

	crm, err := reconcile.ReadCRM(f)
	if err != nil {
		return err
	}

	res := reconcile.Reconcile(entities, crm, cfg.Reconcile)

	out := cmd.OutOrStdout()
	if outPath != "" {
		of, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer of.Close()
		out = of
	}
	return reconcile.WriteResult(out, res)
}
