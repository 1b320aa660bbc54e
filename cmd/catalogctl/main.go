package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"Lintel/internal/auth"
	"Lintel/internal/catalog"
	"Lintel/internal/logger"
	"Lintel/internal/repo"
)

// catalogctl loads the product catalog into the database, either from the
// built-in sample set or from an xlsx workbook.
//
//	catalogctl -seed
//	catalogctl -file products.xlsx
func main() {
	seed := flag.Bool("seed", false, "load the built-in sample products")
	file := flag.String("file", "", "xlsx workbook to import")
	flag.Parse()

	if !*seed && *file == "" {
		fmt.Fprintln(os.Stderr, "usage: catalogctl -seed | -file products.xlsx")
		os.Exit(2)
	}

	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"), "console")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := auth.InitDB(log)
	defer db.Close()
	store := repo.NewPostgresDB(db)

	var products []catalog.Product
	skipped := 0
	if *seed {
		products = catalog.SampleProducts()
	} else {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal("opening workbook", zap.Error(err))
		}
		defer f.Close()
		products, skipped, err = catalog.ParseWorkbook(f)
		if err != nil {
			log.Fatal("parsing workbook", zap.Error(err))
		}
	}

	ctx := context.Background()
	imported := 0
	for _, p := range products {
		if err := store.UpsertProduct(ctx, p); err != nil {
			log.Warn("upserting product", zap.String("code", p.Code), zap.Error(err))
			skipped++
			continue
		}
		imported++
	}

	log.Info("catalog updated", zap.Int("imported", imported), zap.Int("skipped", skipped))
}
