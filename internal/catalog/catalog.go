package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"minishop/internal/model"

	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

// Loader loads a product catalogue.
type Loader interface {
	// Load reads a gzipped JSON-lines catalogue and returns its products.
	Load(ctx context.Context, name string) ([]model.Product, error)
}

// record is one line of a catalogue file.
type record struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image *string         `json:"image"`
}

func (r record) validate() error {
	switch {
	case r.ID < 1:
		return fmt.Errorf("id must be positive")
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("name is required")
	case r.Price.IsNegative():
		return fmt.Errorf("price cannot be negative")
	case r.Stock < 0:
		return fmt.Errorf("stock cannot be negative")
	}
	return nil
}

// decode reads gzipped JSON lines from r. Blank lines are skipped; a later
// line with the same id replaces an earlier one.
func decode(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gz, err := pgzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	products := []model.Product{}
	index := make(map[int64]int)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNo, err)
		}
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		p := model.Product{
			ID:    rec.ID,
			Name:  strings.TrimSpace(rec.Name),
			Price: rec.Price.Round(2),
			Stock: rec.Stock,
			Image: rec.Image,
		}
		if i, ok := index[p.ID]; ok {
			products[i] = p
			continue
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue: %w", err)
	}

	return products, nil
}
