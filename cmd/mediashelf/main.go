package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mmartin/mediashelf/internal/catalog"
	"github.com/mmartin/mediashelf/internal/config"
	"github.com/mmartin/mediashelf/internal/domain"
	"github.com/mmartin/mediashelf/internal/library"
	"github.com/mmartin/mediashelf/internal/log"
	"github.com/mmartin/mediashelf/internal/search"
	"github.com/mmartin/mediashelf/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	exportPath string
	importPath string
	assumeYes  bool
	query      string
	addQuery   string
	manual     bool
	mediaType  string
	status     string
	apiKey     string
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.exportPath, "export", "", "export the library to FILE")
	flag.StringVar(&opts.importPath, "import", "", "replace the library with the snapshot in FILE")
	flag.BoolVar(&opts.assumeYes, "yes", false, "skip confirmation prompts; with -add, take the first result")
	flag.StringVar(&opts.query, "search", "", "filter the library by title")
	flag.StringVar(&opts.addQuery, "add", "", "search the catalog for QUERY and add the chosen result")
	flag.BoolVar(&opts.manual, "manual", false, "with -add, skip the catalog and add QUERY as a title directly")
	flag.StringVar(&opts.mediaType, "type", "film", "media type for -add: film, series or book")
	flag.StringVar(&opts.status, "status", "backlog", "status for -add: backlog, completed or abandoned")
	flag.StringVar(&opts.apiKey, "set-key", "", "store the film/series catalog API key in the config file")
	flag.Parse()

	if showVersion {
		fmt.Printf("mediashelf %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if opts.apiKey != "" {
		return runSetKey(cfg, opts.apiKey)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting mediashelf", "version", Version)

	// Storage failure here is fatal: nothing works without the library.
	st, err := store.Open(cfg.Storage.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open library store: %w", err)
	}
	defer st.Close()

	screen := catalog.NewScreenClient(cfg.Catalog.ScreenBaseURL, cfg.Catalog.ScreenAPIKey, logger)
	books := catalog.NewBookClient(cfg.Catalog.BookBaseURL, logger)
	searcher := catalog.NewSearcher(screen, books)

	svc := library.NewService(st, screen, screen, logger)
	if err := svc.Initialize(); err != nil {
		return err
	}

	switch {
	case opts.exportPath != "":
		return runExport(svc, opts.exportPath)
	case opts.importPath != "":
		return runImport(svc, opts.importPath, opts.assumeYes)
	case opts.query != "":
		return runSearch(svc, opts.query)
	case opts.addQuery != "":
		return runAdd(svc, searcher, opts)
	default:
		return runSummary(svc)
	}
}

func runSetKey(cfg *config.Config, key string) error {
	cfg.Catalog.ScreenAPIKey = key
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("Catalog API key saved.")
	return nil
}

func runExport(svc *library.Service, path string) error {
	data, err := svc.Export()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Printf("Exported %d records to %s\n", svc.Stats().Total, path)
	return nil
}

func runImport(svc *library.Service, path string, assumeYes bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	// Import fully replaces the library; the confirmation lives here,
	// not in the service.
	if !assumeYes {
		fmt.Printf("This replaces the entire library (%d records) with the snapshot. Continue? [y/N] ", svc.Stats().Total)
		answer, err := readLine()
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := svc.Import(data); err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}
	fmt.Printf("Imported %d records\n", svc.Stats().Total)
	return nil
}

func runSearch(svc *library.Service, query string) error {
	idx := search.NewIndex(svc.Library())
	for _, res := range idx.Filter(query) {
		rec := res.Record
		fmt.Printf("%-40s %-6s %-9s %s\n", rec.Title, rec.Year, rec.Type, rec.Status)
	}
	return nil
}

// runAdd is the catalog-to-library path: search the external catalog,
// let the user pick a result, and reconcile the pick into the library.
func runAdd(svc *library.Service, searcher domain.SearchClient, opts options) error {
	mediaType, status, err := parseAddFlags(opts.mediaType, opts.status)
	if err != nil {
		return err
	}

	if opts.manual {
		rec, err := svc.AddManual(domain.Record{
			Title:  opts.addQuery,
			Type:   mediaType,
			Status: status,
		})
		if err != nil {
			return fmt.Errorf("failed to add record: %w", err)
		}
		fmt.Printf("Added %q (%s, %s)\n", rec.Title, rec.Type, rec.Status)
		return nil
	}

	scope := domain.ScopeScreen
	if mediaType == domain.MediaTypeBook {
		scope = domain.ScopeBook
	}

	results, err := searcher.Search(context.Background(), opts.addQuery, scope)
	if err != nil {
		return fmt.Errorf("catalog search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Printf("No catalog results for %q\n", opts.addQuery)
		return nil
	}

	pick, err := chooseResult(results, opts.assumeYes)
	if err != nil || pick == nil {
		return err
	}

	rec, err := svc.AddFromSearch(*pick, status)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}
	fmt.Printf("Added %q (%s, %s)\n", rec.Title, rec.Type, rec.Status)
	return nil
}

// chooseResult prompts for a pick among the catalog results. With
// assumeYes the first result is taken without prompting. A nil result
// with a nil error means the user cancelled.
func chooseResult(results []domain.SearchResult, assumeYes bool) (*domain.SearchResult, error) {
	if assumeYes {
		return &results[0], nil
	}

	for i, res := range results {
		creator := res.Creator
		if creator == "" {
			creator = "-"
		}
		fmt.Printf("%3d. %-40s %-6s %-7s %s\n", i+1, res.Title, res.Year, res.Type, creator)
	}
	fmt.Printf("Add which result? [1-%d, empty to cancel] ", len(results))

	answer, err := readLine()
	if err != nil {
		return nil, err
	}
	if answer == "" {
		fmt.Println("Aborted.")
		return nil, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(results) {
		return nil, fmt.Errorf("invalid selection %q", answer)
	}
	return &results[n-1], nil
}

func parseAddFlags(mediaType, status string) (domain.MediaType, domain.Status, error) {
	mt := domain.MediaType(mediaType)
	switch mt {
	case domain.MediaTypeFilm, domain.MediaTypeSeries, domain.MediaTypeBook:
	default:
		return "", "", fmt.Errorf("unknown media type %q", mediaType)
	}
	st := domain.Status(status)
	if !st.Valid() {
		return "", "", domain.ErrInvalidStatus
	}
	return mt, st, nil
}

func readLine() (string, error) {
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func runSummary(svc *library.Service) error {
	st := svc.Stats()
	fmt.Printf("Library: %d records (%d backlog, %d completed, %d abandoned)\n",
		st.Total,
		st.ByStatus[domain.StatusBacklog],
		st.ByStatus[domain.StatusCompleted],
		st.ByStatus[domain.StatusAbandoned])
	fmt.Printf("Types:   %d films, %d series, %d books\n",
		st.ByType[domain.MediaTypeFilm],
		st.ByType[domain.MediaTypeSeries],
		st.ByType[domain.MediaTypeBook])
	if st.Rated > 0 {
		fmt.Printf("Rated:   %d records, average %.1f/10\n", st.Rated, st.AvgRating)
	}

	recs := svc.Library()
	if next, ok := library.NextUp(recs, domain.CategoryScreen); ok {
		fmt.Printf("Next to watch: %s (%s)\n", next.Title, next.Year)
	}
	if next, ok := library.NextUp(recs, domain.CategoryBook); ok {
		fmt.Printf("Next to read:  %s (%s)\n", next.Title, next.Year)
	}
	return nil
}
