package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"contai/internal/service"
	"contai/pkg/config"
	"contai/pkg/logger"

	"go.uber.org/zap"
)

// contai-batch processes every .xml invoice in a directory end to end
// without the database: extract -> supplier lookup -> per-line
// classification, printing candidates to stdout. A malformed invoice is
// reported and skipped; the remaining files are still processed.
func main() {
	dir := flag.String("dir", ".", "directory containing .xml invoices")
	attivita := flag.String("attivita", "", "your own business activity (overrides ATTIVITA_SVOLTA)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *attivita != "" {
		cfg.Classifier.Attivita = *attivita
	}
	if cfg.Classifier.Attivita == "" {
		log.Fatalf("No business activity configured: set ATTIVITA_SVOLTA or pass -attivita")
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	extractor := service.NewExtractorService(&cfg.Extractor, appLogger)
	searchService := service.NewSearchService(&cfg.Search, appLogger)
	classifierService := service.NewClassifierService(&cfg.Classifier, appLogger)

	files, err := filepath.Glob(filepath.Join(*dir, "*.xml"))
	if err != nil {
		appLogger.Fatal("Failed to list invoice files", zap.Error(err))
	}
	if len(files) == 0 {
		appLogger.Fatal("No .xml files found", zap.String("dir", *dir))
	}
	sort.Strings(files)

	ctx := context.Background()
	for _, file := range files {
		processFile(ctx, file, cfg, extractor, searchService, classifierService, appLogger)
	}
}

func processFile(
	ctx context.Context,
	file string,
	cfg *config.Config,
	extractor *service.ExtractorService,
	searchService *service.SearchService,
	classifierService *service.ClassifierService,
	appLogger *zap.Logger,
) {
	fmt.Printf("Analisi della fattura: %s\n", filepath.Base(file))

	xmlBytes, err := os.ReadFile(file)
	if err != nil {
		appLogger.Error("Failed to read invoice file", zap.Error(err), zap.String("file", file))
		return
	}

	data, err := extractor.Extract(xmlBytes)
	if err != nil {
		appLogger.Error("Extraction failed, skipping invoice", zap.Error(err), zap.String("file", file))
		return
	}

	if len(data.Descriptions) == 0 {
		fmt.Println("Nessuna linea con importo > 0 trovata in questa fattura.")
		fmt.Println("===== Fine dell'analisi di questa fattura =====")
		return
	}

	// One supplier lookup per invoice, before any line classification.
	var supplierContext string
	if cfg.Search.Enabled {
		supplierContext = searchService.ResolveSupplierContext(ctx, data.SupplierName, data.SupplierCity)
	}

	for _, description := range data.Descriptions {
		fmt.Printf("Descrizione linea fattura: %s\n", description)

		resp := classifierService.Classify(ctx, description, supplierContext)
		if resp == nil {
			fmt.Println("Errore nella chiamata API. Controlla i log per maggiori dettagli.")
			fmt.Println("---")
			continue
		}

		accounts := classifierService.DecodeAccounts(resp)
		if len(accounts) == 0 {
			fmt.Println("Nessun conto possibile trovato per questa descrizione.")
		} else {
			fmt.Println("Conti possibili individuati:")
			for _, account := range accounts {
				fmt.Printf("- Numero conto: %s, Descrizione: %s\n", account.NumeroConto, account.Descrizione)
			}
		}
		fmt.Println("---")
	}

	fmt.Println("===== Fine dell'analisi di questa fattura =====")
}
