// Command parsefile runs the extraction engine over a local document and
// prints the result without touching the database.
// Usage: go run ./cmd/parsefile [-type pdf|excel|csv] [-csv] <path>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docparser/internal/csvexport"
	"docparser/internal/domain"
	"docparser/internal/extract"
	"docparser/internal/reader"
)

func main() {
	typeFlag := flag.String("type", "", "file type (pdf, excel, xlsx, xls, csv); inferred from the extension when empty")
	csvFlag := flag.Bool("csv", false, "print extracted metrics as CSV instead of JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: parsefile [-type pdf|excel|csv] [-csv] <path>")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *typeFlag, *csvFlag); err != nil {
		log.Fatal(err)
	}
}

func run(path, typeName string, asCSV bool) error {
	fileType, err := resolveType(path, typeName)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	result, err := extract.NewEngine(nil).ExtractDocument(context.Background(), reader.New(), fileType, data)
	if err != nil {
		return err
	}
	log.Printf("%s: %d tables, %d metrics (confidence %.1f)",
		filepath.Base(path), len(result.Tables), len(result.Metrics), result.Confidence)

	if asCSV {
		w := csvexport.NewWriter(os.Stdout)
		if err := w.WriteHeader(); err != nil {
			return err
		}
		rec := &domain.ParseRecord{
			DocumentID: filepath.Base(path),
			Metrics:    result.Metrics,
			CreatedAt:  time.Now(),
		}
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func resolveType(path, typeName string) (domain.FileType, error) {
	if typeName != "" {
		return domain.ParseFileType(typeName)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		return ft, nil
	}
	return "", fmt.Errorf("%w: cannot infer type of %s; pass -type", domain.ErrUnsupportedFileType, path)
}
