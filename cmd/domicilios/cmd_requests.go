package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"domicilios/internal"
	"domicilios/internal/config"
	"domicilios/internal/listener"
	"domicilios/internal/pipeline"
)

var (
	requestsOutput  string
	requestsSQLite  string
	requestsPolicy  string
	requestsDeliver bool
)

var requestsProcessCmd = &cobra.Command{
	Use:   "requests:process <file.xlsx>",
	Short: "Parse a request workbook into the delivery table",
	Long: `Reads the requester and annotation columns of the first sheet, extracts the
prefixed fields, validates every row and writes <name>_procesado.xlsx with one
sheet per request and one per user. Rejected rows are listed, never written.`,
	Args: cobra.ExactArgs(1),
	RunE: runRequestsProcess,
}

var requestsWatchCmd = &cobra.Command{
	Use:   "requests:watch",
	Short: "Process new request workbooks dropped in INPUT_DIR",
	Args:  cobra.NoArgs,
	RunE:  runRequestsWatch,
}

func init() {
	requestsProcessCmd.Flags().StringVar(&requestsOutput, "output", "", "output xlsx path (default OUTPUT_DIR/<name>_procesado.xlsx)")
	requestsProcessCmd.Flags().StringVar(&requestsSQLite, "sqlite", "", "also write the tables to this SQLite file")
	requestsProcessCmd.Flags().StringVar(&requestsPolicy, "policy", "", "YAML policy file (default POLICY_FILE)")
	requestsProcessCmd.Flags().BoolVar(&requestsDeliver, "deliver", false, "copy the output to DELIVERY_DIR")

	requestsWatchCmd.Flags().StringVar(&requestsPolicy, "policy", "", "YAML policy file (default POLICY_FILE)")
}

func processingService() (*pipeline.ProcessingService, error) {
	path := requestsPolicy
	if path == "" {
		path = cfg.PolicyFile
	}
	policy, err := config.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return pipeline.NewProcessingService(cfg, policy, logger)
}

func runRequestsProcess(cmd *cobra.Command, args []string) error {
	svc, err := processingService()
	if err != nil {
		return err
	}

	input := cfg.ResolveInput(args[0])
	res, err := svc.ProcessFile(input, pipeline.FileOptions{
		OutputPath: requestsOutput,
		SQLitePath: requestsSQLite,
		Deliver:    requestsDeliver,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printOmissions(out, res.Batch.Omissions)
	fmt.Fprintf(out, "run done rows=%d users=%d omitted=%d output=%s\n",
		len(res.Batch.Records), len(res.Batch.Users), len(res.Batch.Omissions), res.Output)
	if res.Delivered != "" {
		fmt.Fprintf(out, "delivered to %s\n", res.Delivered)
	}
	return nil
}

func printOmissions(w io.Writer, omissions []internal.Omission) {
	if len(omissions) == 0 {
		return
	}
	fmt.Fprintf(w, "Filas omitidas (%d):\n", len(omissions))
	for _, o := range omissions {
		fmt.Fprintf(w, "Fila %d: Usuario=%s -> %s\n", o.Row, o.Requester, o.Message)
	}
}

func runRequestsWatch(cmd *cobra.Command, args []string) error {
	svc, err := processingService()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return listener.NewService(cfg, svc, logger).Run(ctx)
}
