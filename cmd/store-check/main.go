package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/garyjia/school-leave/internal/infrastructure/external/sheets"
)

func main() {
	endpoint := flag.String("endpoint", "", "Remote endpoint URL (or set LEAVE_REMOTE_ENDPOINT env var)")
	timeout := flag.Duration("timeout", sheets.DefaultTimeout, "Request timeout")
	tz := flag.String("tz", "Asia/Bangkok", "Calendar time zone")
	calc := flag.Bool("calc", false, "Print working days between the two dates given as arguments and exit")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	if *calc {
		os.Exit(runCalc(flag.Args()))
	}

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *endpoint == "" {
		*endpoint = os.Getenv("LEAVE_REMOTE_ENDPOINT")
	}
	if *endpoint == "" {
		fmt.Fprintf(os.Stderr, "ERROR: LEAVE_REMOTE_ENDPOINT not set and no --endpoint flag provided\n")
		fmt.Fprintf(os.Stderr, "Usage: store-check --endpoint https://... [--timeout 15s]\n")
		fmt.Fprintf(os.Stderr, "       store-check --calc 2023-10-25 2023-10-29\n")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unknown time zone %q: %v\n", *tz, err)
		os.Exit(1)
	}

	fmt.Println("=== Remote Store Check ===")
	fmt.Printf("  Endpoint: %s\n", *endpoint)
	fmt.Printf("  Timeout: %v\n\n", *timeout)

	gateway := sheets.NewGateway(sheets.Config{Endpoint: *endpoint, Timeout: *timeout, Location: loc}, logger)

	start := time.Now()
	leaves, err := gateway.List(context.Background())
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Fetch failed after %v: %v\n", elapsed.Round(time.Millisecond), err)
		os.Exit(1)
	}

	fmt.Printf("✓ Fetched %d records in %v\n\n", len(leaves), elapsed.Round(time.Millisecond))

	counts := make(map[entity.LeaveStatus]int)
	unknown := 0
	for _, l := range leaves {
		if l.Status.IsValid() {
			counts[l.Status]++
		} else {
			unknown++
		}
	}

	fmt.Println("Status breakdown:")
	for _, s := range entity.AllStatuses() {
		fmt.Printf("  %-10s %-12s %d\n", s.Code(), s.Label(), counts[s])
	}
	if unknown > 0 {
		fmt.Printf("  %-10s %-12s %d\n", "UNKNOWN", "-", unknown)
	}
}

func runCalc(args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: store-check --calc START END (dates as YYYY-MM-DD)\n")
		return 2
	}

	start, err := calendar.ParseDate(args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}
	end, err := calendar.ParseDate(args[1], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 2
	}

	fmt.Printf("%s → %s: %d working days\n",
		calendar.FormatThaiLong(start), calendar.FormatThaiLong(end), calendar.WorkingDays(start, end))
	return 0
}
