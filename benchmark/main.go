// Package main provides a performance benchmarking tool for the thelist CLI.
// It generates synthetic event logs of increasing size, runs each command against
// them several times, treating the first successful run as cold and averaging the
// rest as warm, and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - thelist binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated event logs (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	Events   int
	ColdTime string
	WarmTime string
}

// Dataset describes a synthetic event log.
type Dataset struct {
	Name     string
	Items    int // Size of the item pool
	Episodes int
	Churn    int // Events per episode once the list is populated
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Workers  int
	Runs     int
	Datasets []Dataset
	Commands map[string]string // Command -> completion phrase printed on success
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	workDir := ""
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "thelist-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 5 * time.Minute,
		Workers: 14,
		Runs:    4,
		Datasets: []Dataset{
			{Name: "weekly-show", Items: 40, Episodes: 200, Churn: 3},
			{Name: "daily-chart", Items: 200, Episodes: 2000, Churn: 8},
			{Name: "marathon", Items: 1000, Episodes: 10000, Churn: 20},
		},
		Commands: map[string]string{
			"history": "History replay completed in",
			"layout":  "Layout (stable) completed in",
			"series":  "Series export completed in",
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the thelist binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("thelist"); err != nil {
		return errors.New("thelist binary not found in PATH")
	}
	return nil
}

// runBenchmarks generates every dataset and runs all commands against it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.Runs)

	for _, ds := range config.Datasets {
		path := filepath.Join(config.WorkDir, ds.Name+".csv")
		events, err := writeDataset(path, ds)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", ds.Name, err)
		}
		fmt.Printf("Benchmarking %s (%d items, %d episodes, %d events)\n", ds.Name, ds.Items, ds.Episodes, events)

		for _, command := range []string{"history", "layout", "series"} {
			cold, warm := runBenchmark(config, path, command)
			fmt.Printf("  %-8s cold: %s, warm average: %s\n", command, cold, warm)
			results = append(results, BenchmarkResult{
				Dataset:  ds.Name,
				Command:  command,
				Events:   events,
				ColdTime: cold,
				WarmTime: warm,
			})
		}
	}

	return results, nil
}

// writeDataset writes a valid random event log and returns the number of events.
// Each episode touches every item at most once.
func writeDataset(path string, ds Dataset) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"episode", "item", "op", "position", "date"}); err != nil {
		return 0, err
	}

	rng := rand.New(rand.NewPCG(uint64(ds.Items), uint64(ds.Episodes)))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	var list []string
	onList := make(map[string]bool)
	events := 0

	for ep := 1; ep <= ds.Episodes; ep++ {
		date := start.AddDate(0, 0, 7*(ep-1)).Format(time.DateOnly)
		touched := make(map[string]bool)
		rows := 0

		emit := func(item, op string, position int) error {
			pos := ""
			if position > 0 {
				pos = strconv.Itoa(position)
			}
			d := ""
			if rows == 0 {
				d = date
			}
			rows++
			events++
			touched[item] = true
			return writer.Write([]string{strconv.Itoa(ep), item, op, pos, d})
		}

		n := ds.Churn
		if ep == 1 {
			n = min(ds.Items/2, 50)
		}
		for range n {
			var err error
			switch choice := rng.IntN(3); {
			case choice == 0 || len(list) < 2:
				item := fmt.Sprintf("game-%04d", rng.IntN(ds.Items))
				if onList[item] || touched[item] {
					continue
				}
				position := rng.IntN(len(list)+1) + 1
				list = insertAt(list, position-1, item)
				onList[item] = true
				err = emit(item, "insert", position)
			case choice == 1:
				from := rng.IntN(len(list))
				item := list[from]
				if touched[item] {
					continue
				}
				position := rng.IntN(len(list)) + 1
				list = insertAt(append(list[:from:from], list[from+1:]...), position-1, item)
				err = emit(item, "move", position)
			default:
				from := rng.IntN(len(list))
				item := list[from]
				if touched[item] {
					continue
				}
				list = append(list[:from:from], list[from+1:]...)
				delete(onList, item)
				err = emit(item, "remove", 0)
			}
			if err != nil {
				return 0, err
			}
		}
		if rows == 0 {
			// Declare the episode so it is carried forward
			if err := writer.Write([]string{strconv.Itoa(ep), "", "", "", date}); err != nil {
				return 0, err
			}
		}
	}
	return events, writer.Error()
}

func insertAt(list []string, i int, item string) []string {
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = item
	return list
}

// runBenchmark executes a thelist command several times and returns the cold time and warm average
func runBenchmark(config BenchmarkConfig, path, command string) (cold, warm string) {
	args := []string{command, path, "--offline", "--cache-backend", "none", "--workers", strconv.Itoa(config.Workers)}

	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "thelist", args...).Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && strings.Contains(string(output), config.Commands[command]) {
			times = append(times, elapsed)
		}
	}

	cold, warm = "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		cold = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warm = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}
	return cold, warm
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/thelist_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "events", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, strconv.Itoa(result.Events), result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"history", "layout", "series"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-12s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
			}
		}
	}
}
