// Package parquet provides data structures and functions for exporting run
// history and chart series to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bonuspoints/thelist/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single series export with metadata.
// This struct maps to the thelist_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique tag of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// DurationMs is the duration of the run in milliseconds (nullable)
	DurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalPoints is the number of points exported (nullable)
	TotalPoints *int64 `parquet:"total_points,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// StoredPoint is one recorded point of a past run.
// This struct maps to the thelist_series_points database table.
type StoredPoint struct {
	RunID       int64   `parquet:"run_id,snappy"`
	Episode     int32   `parquet:"episode,snappy"`
	ItemID      string  `parquet:"item_id,snappy,dict"`
	Rank        int32   `parquet:"item_rank,snappy"`
	Track       int32   `parquet:"track,snappy"`
	Lane        int32   `parquet:"lane,snappy"`
	DisplayName string  `parquet:"display_name,snappy,dict"`
	CatalogRef  *string `parquet:"catalog_ref,optional,snappy"`
}

// SeriesPoint is one chart row of a live series export.
type SeriesPoint struct {
	Episode         int32      `parquet:"episode,snappy"`
	Date            *time.Time `parquet:"date,optional,snappy"`
	ItemID          string     `parquet:"item_id,snappy,dict"`
	Rank            int32      `parquet:"item_rank,snappy"`
	Track           int32      `parquet:"track,snappy"`
	Lane            int32      `parquet:"lane,snappy"`
	DisplayName     string     `parquet:"display_name,snappy,dict"`
	CatalogRef      string     `parquet:"catalog_ref,snappy"`
	CoverImageRef   string     `parquet:"cover_image_ref,snappy"`
	Color           string     `parquet:"color,snappy,dict"`
	Marker          string     `parquet:"marker,snappy,dict"`
	ScaledY         float64    `parquet:"scaled_y,snappy"`
	MetadataMissing bool       `parquet:"metadata_missing,snappy"`
}

// Write writes rows to w as a single Parquet file whose schema is inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Read reads every row of a Parquet file.
func Read[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return rows, nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:        record.RunID,
			RunUUID:      record.RunUUID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			DurationMs:   record.DurationMs,
			TotalPoints:  record.TotalPoints,
			ConfigParams: record.ConfigJSON,
		}
	}
	return result
}

// ConvertSeriesPointRecords converts schema.SeriesPointRecord to StoredPoint for Parquet export.
func ConvertSeriesPointRecords(records []schema.SeriesPointRecord) []StoredPoint {
	result := make([]StoredPoint, len(records))
	for i, record := range records {
		result[i] = StoredPoint(record)
	}
	return result
}

// ConvertDataPoints converts exporter output to SeriesPoint rows.
func ConvertDataPoints(points []schema.DataPoint) []SeriesPoint {
	result := make([]SeriesPoint, len(points))
	for i, p := range points {
		var date *time.Time
		if !p.Date.IsZero() {
			d := p.Date
			date = &d
		}
		result[i] = SeriesPoint{
			Episode:         int32(p.Episode),
			Date:            date,
			ItemID:          p.ItemID,
			Rank:            int32(p.Rank),
			Track:           int32(p.Track),
			Lane:            int32(p.Lane),
			DisplayName:     p.DisplayName,
			CatalogRef:      p.CatalogRef,
			CoverImageRef:   p.CoverImageRef,
			Color:           p.Color,
			Marker:          string(p.Marker),
			ScaledY:         p.ScaledY,
			MetadataMissing: p.MetadataMissing,
		}
	}
	return result
}
