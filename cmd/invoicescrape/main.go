// invoicescrape is a command-line tool for turning vendor HTML invoices and
// delivery notes into structured records.
//
// Each document is parsed into an invoice with header fields, line items in
// document order, and the totals exactly as the document states them. The
// result can be written as canonical YAML, JSON or a printable PDF.
//
// Usage:
//
//	invoicescrape -html order.html [options]
//	invoicescrape -htmls a.html,b.html,c.html [options]
//
// Input options (one required):
//
//	-html string      Path to one HTML document
//	-htmls string     Comma-separated paths, parsed concurrently
//
// Output options (single document; YAML to stdout when none is given):
//
//	-yaml string      Write canonical YAML to this path
//	-json string      Write JSON to this path
//	-pdf string       Write a printable PDF to this path
//	-font string      TrueType font for the PDF (needed for Japanese text)
//
// Processing options:
//
//	-config string    YAML file with label rules merged over the defaults
//	-check            Report stated totals that do not match recomputed ones
//	-jobs int         Documents parsed at once with -htmls (default 4)
//	-overwrite        Overwrite output files if they exist
//	-debug            Print field lookups and skipped rows to stderr
//
// With -htmls the documents are written to stdout (or -yaml / -json) as one
// YAML stream or JSON array in input order.
//
// Examples:
//
// Parse an Akizuki order page and print it:
//
//	invoicescrape -html E250103-012345.html
//
// Export a PDF with a Japanese font and check the totals:
//
//	invoicescrape -html order.html -pdf order.pdf -font NotoSansJP-Regular.ttf -check
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gardar/invoicekit/pkg/invoice"
	"github.com/gardar/invoicekit/pkg/invoicepdf"
)

func main() {
	htmlPath := flag.String("html", "", "Path to an HTML invoice")
	htmlPaths := flag.String("htmls", "", "Comma-separated HTML invoices to parse concurrently")
	configPath := flag.String("config", "", "YAML parser config merged over the defaults")
	yamlPath := flag.String("yaml", "", "Output YAML path")
	jsonPath := flag.String("json", "", "Output JSON path")
	pdfPath := flag.String("pdf", "", "Output PDF path")
	fontPath := flag.String("font", "", "TrueType font for PDF output")
	check := flag.Bool("check", false, "Report stated totals that differ from recomputed ones")
	jobs := flag.Int("jobs", 4, "Number of documents parsed at once with -htmls")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite output files if they already exist")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	if *htmlPath == "" && *htmlPaths == "" {
		fmt.Println("Error: Must provide either -html or -htmls")
		os.Exit(1)
	}
	if *htmlPath != "" && *htmlPaths != "" {
		fmt.Println("Error: -html and -htmls cannot be combined")
		os.Exit(1)
	}

	config := invoice.DefaultConfig()
	if *configPath != "" {
		var err error
		config, err = invoice.LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	config.Debug = *debug
	config.Logger = os.Stderr

	parser, err := invoice.NewParser(config)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, p := range []string{*yamlPath, *jsonPath, *pdfPath} {
		if err := checkOutput(p, *overwriteOutput); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	if *htmlPaths != "" {
		if *pdfPath != "" {
			fmt.Println("Warning: -pdf is only applicable with -html. Ignoring -pdf.")
		}
		os.Exit(runBatch(parser, splitPaths(*htmlPaths), *jobs, *yamlPath, *jsonPath, *check))
	}

	inv, err := parser.ParseFile(*htmlPath)
	if err != nil {
		reportParseError(os.Stderr, *htmlPath, err)
		os.Exit(1)
	}

	if *check {
		printDiscrepancies(*htmlPath, inv)
	}

	wrote := false
	if *yamlPath != "" {
		data, err := invoice.Render(inv)
		if err != nil {
			fmt.Printf("Failed to render YAML: %v\n", err)
			os.Exit(1)
		}
		writeOutput(*yamlPath, data)
		wrote = true
	}
	if *jsonPath != "" {
		data, err := invoice.ToJSON(inv)
		if err != nil {
			fmt.Printf("Failed to render JSON: %v\n", err)
			os.Exit(1)
		}
		writeOutput(*jsonPath, []byte(data+"\n"))
		wrote = true
	}
	if *pdfPath != "" {
		pdfConfig := invoicepdf.DefaultConfig()
		pdfConfig.Debug = *debug
		pdfConfig.Logger = os.Stderr
		pdfConfig.Font.File = *fontPath
		data, err := invoicepdf.Render(inv, pdfConfig)
		if err != nil {
			fmt.Printf("Failed to create PDF: %v\n", err)
			os.Exit(1)
		}
		writeOutput(*pdfPath, data)
		wrote = true
	}

	if !wrote {
		data, err := invoice.Render(inv)
		if err != nil {
			fmt.Printf("Failed to render YAML: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
	}
}

// runBatch parses every path with at most jobs parsers running and writes
// the results in input order. It returns the process exit code.
func runBatch(parser *invoice.Parser, paths []string, jobs int, yamlPath, jsonPath string, check bool) int {
	invoices := make([]*invoice.Invoice, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			invoices[i], errs[i] = parser.ParseFile(path)
			return nil
		})
	}
	g.Wait()

	failed := 0
	var parsed []*invoice.Invoice
	for i, path := range paths {
		if errs[i] != nil {
			reportParseError(os.Stderr, path, errs[i])
			failed++
			continue
		}
		if check {
			printDiscrepancies(path, invoices[i])
		}
		parsed = append(parsed, invoices[i])
	}

	var stream bytes.Buffer
	for i, inv := range parsed {
		data, err := invoice.Render(inv)
		if err != nil {
			fmt.Printf("Failed to render YAML: %v\n", err)
			return 1
		}
		if i > 0 {
			stream.WriteString("---\n")
		}
		stream.Write(data)
	}

	switch {
	case yamlPath != "":
		writeOutput(yamlPath, stream.Bytes())
	case jsonPath == "":
		os.Stdout.Write(stream.Bytes())
	}
	if jsonPath != "" {
		data, err := invoice.ToJSON(parsed)
		if err != nil {
			fmt.Printf("Failed to render JSON: %v\n", err)
			return 1
		}
		writeOutput(jsonPath, []byte(data+"\n"))
	}

	fmt.Fprintf(os.Stderr, "Parsed %d of %d documents\n", len(parsed), len(paths))
	if failed > 0 {
		return 1
	}
	return 0
}

func reportParseError(w io.Writer, path string, err error) {
	fmt.Fprintf(w, "Error parsing %s: %v\n", path, err)
	if kind := invoice.KindOf(err); kind != 0 {
		fmt.Fprintf(w, "  %s\n", kind.Guidance())
	}
}

func printDiscrepancies(path string, inv *invoice.Invoice) {
	for _, d := range inv.Reconcile() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
	}
}

func splitPaths(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func checkOutput(path string, overwrite bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("Output file %s already exists. Use -overwrite to overwrite.", path)
	}
	return nil
}

func writeOutput(path string, data []byte) {
	if err := os.WriteFile(path, data, 0666); err != nil {
		fmt.Printf("Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Println("✅ Written:", path)
}
