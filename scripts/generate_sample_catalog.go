package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image *string         `json:"image,omitempty"`
}

// Writes data/products.jsonl.gz, the default catalogue read by cmd/seed.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []sampleProduct{
		{ID: 1, Name: "Classic White T-Shirt", Price: decimal.RequireFromString("19.99"), Stock: 120},
		{ID: 2, Name: "Slim Fit Jeans", Price: decimal.RequireFromString("49.50"), Stock: 60},
		{ID: 3, Name: "Canvas Sneakers", Price: decimal.RequireFromString("64.00"), Stock: 40},
		{ID: 4, Name: "Wool Beanie", Price: decimal.RequireFromString("15.00"), Stock: 200},
		{ID: 5, Name: "Leather Belt", Price: decimal.RequireFromString("29.95"), Stock: 75},
		{ID: 6, Name: "Rain Jacket", Price: decimal.RequireFromString("89.00"), Stock: 25},
		{ID: 7, Name: "Cotton Socks (3 pack)", Price: decimal.RequireFromString("9.99"), Stock: 300},
		{ID: 8, Name: "Desk Lamp", Price: decimal.RequireFromString("34.90"), Stock: 50},
		{ID: 9, Name: "Ceramic Mug", Price: decimal.RequireFromString("12.00"), Stock: 150},
		{ID: 10, Name: "Travel Backpack", Price: decimal.RequireFromString("79.00"), Stock: 3},
	}

	filePath := filepath.Join(dataDir, "products.jsonl.gz")
	if err := writeCatalog(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func writeCatalog(filePath string, products []sampleProduct) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := pgzip.NewWriter(file)
	enc := json.NewEncoder(gz)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}

	return gz.Close()
}
