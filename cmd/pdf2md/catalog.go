// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md-legal/internal/catalog"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse recorded conversions (list, outline, search, export)",
	Long: `Catalog reads the SQLite database that convert fills when --catalog
is set. Each conversion keeps its formatting counters and the document
outline: headings, structural titles and article numbers.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded conversions, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	list, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(list)
	}
	if len(list) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-40s  %-10s  %5s  %7s  %7s  %s\n",
		"ID", "Title", "Backend", "Pages", "Lines", "Dropped", "Converted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range list {
		fmt.Fprintf(os.Stdout, "%-4d  %s  %-10s  %5d  %7d  %7d  %s\n",
			r.ID, cell(r.Title, 40), r.Backend, r.Pages, r.Stats.Lines, r.Stats.Dropped,
			r.ConvertedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(os.Stdout, "\n%d conversions\n", len(list))
	return nil
}

// --- outline subcommand ---

var catalogOutlineCmd = &cobra.Command{
	Use:   "outline <id>",
	Short: "Print the outline of a recorded conversion",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogOutline,
}

func runCatalogOutline(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid conversion id %q", args[0])
	}
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(rec)
	}

	fmt.Printf("# %s\n%s -> %s\n\n", rec.Title, rec.Input, rec.Output)
	for _, e := range rec.Outline {
		fmt.Println(outlineLine(e))
	}
	return nil
}

// outlineLine indents headings by level; bold titles and articles sit
// under the deepest heading level.
func outlineLine(e types.OutlineEntry) string {
	depth := 6
	if e.Kind == types.KindHeading && e.Level > 0 {
		depth = e.Level
	}
	return strings.Repeat("  ", depth-1) + e.Text
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search outline entries across recorded conversions",
	RunE:  runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	doc, _ := cmd.Flags().GetInt64("document")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.SearchOptions{
		Query:        strings.Join(args, " "),
		Kind:         types.FragmentKind(kind),
		ConversionID: doc,
		MaxResults:   limit,
	}
	if opts.Query == "" && opts.Kind == "" && opts.ConversionID == 0 {
		return fmt.Errorf("query or filter required: provide a search query, --kind, or --document")
	}

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(hits)
	}
	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-50s  %-30s  %s\n", "Doc", "Kind", "Text", "Title", "Position")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, h := range hits {
		fmt.Fprintf(os.Stdout, "%-4d  %-8s  %s  %s  %d\n",
			h.ConversionID, h.Kind, cell(h.Text, 50), cell(h.Title, 30), h.Position)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(hits))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), w)
	case "json":
		err = store.ExportJSON(cmd.Context(), w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	path := viper.GetString("catalog")
	if path == "" {
		return nil, fmt.Errorf("no catalog configured: set --catalog, PDF2MD_CATALOG, or catalog in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog.Open(path)
}

// cell truncates and pads s to exactly width terminal columns.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	catalogListCmd.Flags().Bool("json", false, "output as JSON")
	catalogOutlineCmd.Flags().Bool("json", false, "output as JSON")

	catalogSearchCmd.Flags().String("kind", "", "filter by kind: heading, bold, or article")
	catalogSearchCmd.Flags().Int64("document", 0, "restrict to one conversion id")
	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogOutlineCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
