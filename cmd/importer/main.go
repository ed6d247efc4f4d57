package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tokyo-valuation-api/internal/artifact"
	"tokyo-valuation-api/internal/config"
	"tokyo-valuation-api/internal/models"
	"tokyo-valuation-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func main() {
	file := flag.String("file", "", "Path to the CSV (location_key,score) or JSON score table to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := readScores(*file)
	if err != nil {
		fmt.Printf("Error reading scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	repo := repository.NewRepository(conn)

	// Ensure table exists
	if err := repo.EnsureSchema(context.Background()); err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Replace records
	if _, err := repo.ReplaceTownScores(context.Background(), records); err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	count, err := repo.CountTownScores(context.Background())
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}
	if count != len(records) {
		fmt.Printf("Error verifying import: record count mismatch: expected %d, got %d\n", len(records), count)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

// readScores reads a JSON score table or a CSV file depending on the extension.
func readScores(path string) ([]models.TownScore, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		table, err := artifact.NewOSStore(zerolog.Nop()).LoadScoreTable(path)
		if err != nil {
			return nil, err
		}
		records := make([]models.TownScore, 0, len(table))
		for _, key := range table.Keys() {
			records = append(records, models.TownScore{LocationKey: key, Score: table[key]})
		}
		return records, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) ([]models.TownScore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	seen := make(map[string]bool)
	var records []models.TownScore
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		key := strings.TrimSpace(record[0])
		if key == "" {
			return nil, fmt.Errorf("empty location key on line %d", len(records)+2)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate location key: %s", key)
		}
		seen[key] = true

		score, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, fmt.Errorf("invalid score for %s: %s", key, record[1])
		}

		records = append(records, models.TownScore{LocationKey: key, Score: score})
	}

	return records, nil
}
