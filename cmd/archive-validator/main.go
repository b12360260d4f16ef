// Command archive-validator checks a closed-auction archive against its own ledger.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cloudx-io/silentauction/archive"
)

// plainTextHandler is a simple slog handler that writes plain text to its writer
// without timestamps or log levels - appropriate for CLI output
type plainTextHandler struct {
	out io.Writer
}

func (*plainTextHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *plainTextHandler) Handle(_ context.Context, r slog.Record) error {
	_, err := fmt.Fprintln(h.out, r.Message)
	return err
}

func (h *plainTextHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *plainTextHandler) WithGroup(_ string) slog.Handler {
	return h
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the validator and returns the process exit code:
// 0 valid, 1 invalid or missing flags, 2 unreadable archive.
func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(&plainTextHandler{out: stdout})

	flags := flag.NewFlagSet("archive-validator", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		archivePath  = flags.String("archive", "", "Path to the auction archive (.cbor) (required)")
		outputFormat = flags.String("format", "text", "Output format: text or json")
		help         = flags.Bool("help", false, "Show usage information")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *help {
		showUsage(logger)
		return 0
	}
	if *archivePath == "" {
		showUsage(logger)
		fmt.Fprintf(stderr, "\nError: --archive is required\n")
		return 1
	}
	if *outputFormat != "text" && *outputFormat != "json" {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *outputFormat)
		return 2
	}

	a, err := archive.ReadFile(*archivePath)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading archive: %v\n", err)
		return 2
	}

	result, err := archive.Verify(a)
	if err != nil {
		fmt.Fprintf(stderr, "Validation error: %v\n", err)
		return 2
	}

	if *outputFormat == "json" {
		if err := outputJSON(stdout, a, result); err != nil {
			fmt.Fprintf(stderr, "Error marshaling JSON: %v\n", err)
			return 2
		}
	} else {
		outputText(logger, a, result)
	}

	if !result.IsValid() {
		return 1
	}
	return 0
}

func showUsage(logger *slog.Logger) {
	logger.Info("Auction Archive Validator")
	logger.Info("")
	logger.Info("Replays the bid ledger of a closed auction and checks the stored results.")
	logger.Info("")
	logger.Info("Usage:")
	logger.Info("  archive-validator --archive <path> [options]")
	logger.Info("")
	logger.Info("Required Flags:")
	logger.Info("  --archive <path>        Archive written when the auction closed (auction-<millis>.cbor)")
	logger.Info("")
	logger.Info("Optional Flags:")
	logger.Info("  --format <text|json>    Output format (default: text)")
	logger.Info("  --help                  Show this help message")
	logger.Info("")
	logger.Info("Exit Codes:")
	logger.Info("  0 - Validation passed")
	logger.Info("  1 - Validation failed")
	logger.Info("  2 - Invalid input or runtime error")
}

func outputText(logger *slog.Logger, a *archive.Archive, result *archive.VerificationResult) {
	logger.Info("Auction Archive Validator")
	logger.Info("=========================")
	logger.Info("")
	logger.Info(fmt.Sprintf("Closed at: %s", a.ClosedAt().Format("2006-01-02 15:04:05 MST")))
	logger.Info(fmt.Sprintf("Items:     %d", len(a.Items)))
	logger.Info(fmt.Sprintf("Bids:      %d", len(a.Bids)))

	logger.Info("")
	logger.Info("Summary:")
	logger.Info(fmt.Sprintf("  Ledger Hash Valid:     %v", result.LedgerHashValid))
	logger.Info(fmt.Sprintf("  Bid Bounds Valid:      %v", result.BidBoundsValid))
	logger.Info(fmt.Sprintf("  Final State Valid:     %v", result.FinalStateValid))

	logger.Info("")
	logger.Info("Details:")
	for _, detail := range result.ValidationDetails {
		logger.Info(fmt.Sprintf("  - %s", detail))
	}

	logger.Info("")
	logger.Info("=========================")
	if result.IsValid() {
		logger.Info("VALIDATION: ✓ PASSED")
		logger.Info("Exit Code: 0")
	} else {
		logger.Info("VALIDATION: ✗ FAILED")
		logger.Info("Exit Code: 1")
	}
}

func outputJSON(w io.Writer, a *archive.Archive, result *archive.VerificationResult) error {
	output := map[string]any{
		"valid":             result.IsValid(),
		"closed_at":         a.ClosedAt(),
		"ledger_hash":       a.LedgerHash,
		"ledger_hash_valid": result.LedgerHashValid,
		"bid_bounds_valid":  result.BidBoundsValid,
		"final_state_valid": result.FinalStateValid,
		"details":           result.ValidationDetails,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
