package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"weather-chat/internal/config"
	"weather-chat/internal/models"
	"weather-chat/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PlaceRecord is one gazetteer row: name,country,latitude,longitude[,population].
type PlaceRecord struct {
	Name       string
	Country    string
	Lat        float64
	Lon        float64
	Population int64
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open file")
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse CSV")
	}
	log.Info().Int("records", len(records)).Msg("parsed")

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("db_source is not configured")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, repository.Schema); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	before, err := countPlaces(ctx, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count places")
	}

	if err := insertRecords(ctx, conn, records); err != nil {
		log.Fatal().Err(err).Msg("failed to insert records")
	}

	if err := verifyImport(ctx, conn, before+len(records)); err != nil {
		log.Fatal().Err(err).Msg("failed to verify import")
	}

	log.Info().Int("records", len(records)).Msg("import finished")
}

func parseCSV(r io.Reader) ([]PlaceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []PlaceRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: invalid record length: %d, expected at least 4 columns", line, len(record))
		}

		place := PlaceRecord{
			Name:    strings.TrimSpace(record[0]),
			Country: strings.TrimSpace(record[1]),
		}
		if place.Name == "" {
			return nil, fmt.Errorf("line %d: empty name", line)
		}

		if place.Lat, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[2])
		}
		if place.Lon, err = strconv.ParseFloat(strings.TrimSpace(record[3]), 64); err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[3])
		}
		if !models.ValidCoordinates(place.Lat, place.Lon) {
			return nil, fmt.Errorf("line %d: coordinates out of range: %f,%f", line, place.Lat, place.Lon)
		}

		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			if place.Population, err = strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid population: %s", line, record[4])
			}
		}

		records = append(records, place)
	}

	return records, nil
}

// pointWKT renders a PostGIS EWKT point; PostGIS takes lon before lat.
func pointWKT(lat, lon float64) string {
	return fmt.Sprintf("SRID=4326;POINT(%f %f)", lon, lat)
}

func insertRecords(ctx context.Context, conn *pgx.Conn, records []PlaceRecord) error {
	_, err := conn.CopyFrom(
		ctx,
		pgx.Identifier{"places"},
		[]string{"name", "country", "population", "geom"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.Name, r.Country, r.Population, pointWKT(r.Lat, r.Lon)}, nil
		}),
	)
	return err
}

func countPlaces(ctx context.Context, conn *pgx.Conn) (int, error) {
	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM places").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func verifyImport(ctx context.Context, conn *pgx.Conn, expectedCount int) error {
	count, err := countPlaces(ctx, conn)
	if err != nil {
		return err
	}
	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	var geom string
	if err := conn.QueryRow(ctx, "SELECT ST_AsText(geom) FROM places ORDER BY id DESC LIMIT 1").Scan(&geom); err != nil {
		return fmt.Errorf("failed to check geom: %w", err)
	}
	log.Info().Str("geom", geom).Msg("sample geom")
	return nil
}
