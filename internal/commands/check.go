package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osa-dev/ucoa-audit/internal/config"
	"github.com/osa-dev/ucoa-audit/internal/model"
	"github.com/osa-dev/ucoa-audit/internal/ucoa"
	"github.com/osa-dev/ucoa-audit/internal/validate"
)

func newCheckCommand() *cobra.Command {
	var configPath string
	var txType string

	cmd := &cobra.Command{
		Use:   "check CODE",
		Short: "Validate one account code against the reference codesets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, configPath, args[0], txType)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "ucoa-audit.yaml", "config file")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type: expense or revenue")

	return cmd
}

func runCheck(cmd *cobra.Command, configPath, code, txType string) error {
	var t model.TransactionType
	switch strings.ToLower(txType) {
	case "expense":
		t = model.TypeExpense
	case "revenue":
		t = model.TypeRevenue
	default:
		return fmt.Errorf("unknown transaction type %q: want expense or revenue", txType)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	codes, err := ucoa.LoadWorkbook(cfg.Paths.Workbook, cfg.Workbook.Sheets, cfg.Supplement)
	if err != nil {
		return fmt.Errorf("loading reference codesets: %w", err)
	}

	v := validate.ValidateCodes([]model.Transaction{{Type: t, AccountCode: code}}, codes)
	if !v.Any() {
		cmd.Printf("%s: valid\n", code)
		return nil
	}

	switch {
	case v.AnyBlankOrNA:
		cmd.Println("blank or N/A account code")
	case len(v.IncorrectFormat) > 0:
		cmd.Printf("%s: incorrect format (want 3 digits, dash, 6 digits, dash, 8 digits)\n", code)
	default:
		for _, f := range v.InvalidFund {
			cmd.Printf("%s: unknown fund %s\n", code, f)
		}
		for _, f := range v.InvalidFunction {
			cmd.Printf("%s: unknown function %s\n", code, f)
		}
		for _, a := range v.InvalidExpenseAccount {
			cmd.Printf("%s: unknown expense account %s\n", code, a)
		}
		for _, a := range v.InvalidRevenueAccount {
			cmd.Printf("%s: unknown revenue account %s\n", code, a)
		}
	}
	return nil
}
