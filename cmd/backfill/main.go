package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"stockfolio/internal/database"
	"stockfolio/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Seeds a month of daily closes and classification metadata for a few
// demo tickers so the analytics endpoint has something to work with.
func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	r := database.New(db, logrus.New())
	ctx := context.Background()

	securities := []struct {
		sec   models.Security
		base  float64
		drift float64
	}{
		{models.Security{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics", AssetClass: "equity", Currency: "USD", Exchange: "NMS"}, 185, 0.004},
		{models.Security{Symbol: "GOOG", Name: "Alphabet Inc.", Sector: "Communication Services", Industry: "Internet Content & Information", AssetClass: "equity", Currency: "USD", Exchange: "NMS"}, 140, 0.002},
		{models.Security{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", Industry: "Software - Infrastructure", AssetClass: "equity", Currency: "USD", Exchange: "NMS"}, 410, -0.001},
		{models.Security{Symbol: "XOM", Name: "Exxon Mobil Corporation", Sector: "Energy", Industry: "Oil & Gas Integrated", AssetClass: "equity", Currency: "USD", Exchange: "NYQ"}, 105, 0.001},
		{models.Security{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", AssetClass: "fixed income", Currency: "USD", Exchange: "NGM"}, 72, 0.0002},
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, s := range securities {
		if err := r.UpsertSecurity(ctx, s.sec); err != nil {
			fmt.Printf("Warning: could not upsert %s: %v\n", s.sec.Symbol, err)
			continue
		}
		for d := 30; d >= 1; d-- {
			day := today.AddDate(0, 0, -d)
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			i := float64(30 - d)
			px := s.base * (1 + s.drift*i + 0.01*math.Sin(i))
			ts := day.Add(20 * time.Hour)
			if err := r.UpsertPrice(ctx, s.sec.Symbol, decimal.NewFromFloat(px).Round(4), ts); err != nil {
				fmt.Printf("Warning: could not insert price for %s: %v\n", s.sec.Symbol, err)
			}
		}
	}

	userID := "demo-user"
	for sym, qty := range map[string]int64{"AAPL": 10, "MSFT": 5, "XOM": 20, "BND": 15} {
		if _, err := r.AddHolding(ctx, userID, sym, qty); err != nil {
			fmt.Printf("Warning: could not add holding %s: %v\n", sym, err)
		}
	}

	fmt.Println("Successfully backfilled a month of prices!")
	fmt.Printf("Now open: http://localhost:8080/analytics/%s?dimension=sector\n", userID)
}
