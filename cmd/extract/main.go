// Command extract parses supplier invoice PDFs into structured records and
// prints them as JSON. The supplier layout is taken from -supplier or
// detected from the document text.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/extraction/extractor"
	"github.com/FACorreiaa/supplier-invoice-tracker/internal/domain/invoice"
)

func main() {
	var (
		supplierFlag = flag.String("supplier", "", "supplier key (SUPPLIER1, SUPPLIER2, SUPPLIER3); detected when empty")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: extract [-supplier KEY] invoice.pdf [invoice.pdf ...]")
		os.Exit(2)
	}

	svc, err := extraction.NewService(extractor.NewPDFExtractor(), logger)
	if err != nil {
		logger.Error("failed to initialize extraction service", slog.Any("error", err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	exitCode := 0
	for _, path := range flag.Args() {
		rec, err := extractOne(svc, path, *supplierFlag)
		if err != nil {
			logger.Error("extraction failed",
				slog.String("path", path),
				slog.Any("error", err))
			exitCode = 1
			continue
		}
		if err := enc.Encode(rec); err != nil {
			logger.Error("failed to encode record", slog.Any("error", err))
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func extractOne(svc *extraction.Service, path, supplierFlag string) (*invoice.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if supplierFlag != "" {
		return svc.Extract(f, invoice.SupplierKey(strings.ToUpper(supplierFlag)))
	}

	text, err := svc.ExtractDocumentText(f)
	if err != nil {
		return nil, err
	}
	key, ok := svc.DetectSupplier(text)
	if !ok {
		return nil, fmt.Errorf("could not detect supplier layout for %s", path)
	}
	slog.Debug("detected supplier", slog.String("supplier", key.String()))
	return svc.ExtractFromText(text, key)
}
