package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"reconciliation-service/internal/core/export"
	"reconciliation-service/internal/core/reconciliation"
	"reconciliation-service/internal/core/spreadsheet"
	"reconciliation-service/internal/domain"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var timeNow = time.Now

type validateOptions struct {
	variant string
	sat     string
	questor string
	out     string
	details bool
	strict  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reconcile",
		Short:         "Validação de notas fiscais SAT x Questor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compara uma planilha SAT com uma planilha Questor",
		Example: `  reconcile validate --variant emitidas --sat sat.xlsx --questor questor.xlsx
  reconcile validate --variant destinadas --sat sat.csv --questor questor.csv --out relatorio.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.variant, "variant", reconciliation.Emitidas.Name, "tipo de validação: emitidas ou destinadas")
	flags.StringVar(&opts.sat, "sat", "", "planilha SAT (.xlsx, .xls, .csv)")
	flags.StringVar(&opts.questor, "questor", "", "planilha Questor (.xlsx, .xls, .csv)")
	flags.StringVarP(&opts.out, "out", "o", "", "grava o relatório .xlsx neste caminho (diretório usa o nome padrão)")
	flags.BoolVar(&opts.details, "details", false, "lista cada divergência")
	flags.BoolVar(&opts.strict, "strict", false, "retorna erro quando houver divergências de severidade erro")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log detalhado")
	_ = cmd.MarkFlagRequired("sat")
	_ = cmd.MarkFlagRequired("questor")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	variant, ok := reconciliation.VariantByName(opts.variant)
	if !ok {
		return fmt.Errorf("tipo de validação desconhecido: %s", opts.variant)
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
		defer logger.Sync()
	}

	reader := spreadsheet.NewReader(logger)
	sat, questor, err := spreadsheet.LoadPair(reader, fileSource(opts.sat), fileSource(opts.questor))
	if err != nil {
		return err
	}

	result := reconciliation.NewService(logger).Validate(variant, sat, questor)

	out := cmd.OutOrStdout()
	printSummary(out, variant, result)
	if opts.details {
		if err := printIssues(out, result); err != nil {
			return err
		}
	}

	if opts.out != "" {
		path, err := writeReport(export.NewWriter(logger), result, opts.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Relatório gravado em %s\n", path)
	}

	if errs := result.CountBySeverity(domain.SeverityError); opts.strict && errs > 0 {
		return fmt.Errorf("validação encontrou %d divergência(s) de severidade erro", errs)
	}
	return nil
}

func fileSource(path string) spreadsheet.Source {
	return spreadsheet.Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func printSummary(w io.Writer, variant reconciliation.Variant, result domain.ValidationResult) {
	fmt.Fprintf(w, "Validação SAT x Questor (%s)\n", variant.Name)
	fmt.Fprintf(w, "Total de registros analisados: %d\n", result.TotalRecords)
	fmt.Fprintf(w, "Registros validados com sucesso: %d (%d%%)\n", result.MatchedRecords, reconciliation.SuccessPercentage(result))
	fmt.Fprintf(w, "Total de problemas encontrados: %d (%d erros, %d alertas)\n",
		len(result.Issues),
		result.CountBySeverity(domain.SeverityError),
		result.CountBySeverity(domain.SeverityWarning))
}

func printIssues(w io.Writer, result domain.ValidationResult) error {
	table := reconciliation.IssuesTable(result)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Header, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// writeReport writes the workbook to path, or to the default file name inside
// path when it is a directory.
func writeReport(writer export.Writer, result domain.ValidationResult, path string) (string, error) {
	data, err := writer.WriteReport(result)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.ReportFileName(timeNow()))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("falha ao gravar relatório: %w", err)
	}
	return path, nil
}
