package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/internal/device"
	"github.com/govee-tools/goveectl/scanner"
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover nearby BLE devices",
	Long: `Scan for Bluetooth Low Energy advertisements and list the devices
in range. Use it to find your strip's address; Govee strips usually
advertise a name like Govee_H6159_XXXX.`,
	RunE: runDiscover,
}

var (
	discoverDuration  time.Duration
	discoverFormat    string
	discoverServices  []string
	discoverAllowList []string
	discoverBlockList []string
	discoverWatch     bool
)

func init() {
	discoverCmd.Flags().DurationVarP(&discoverDuration, "duration", "d", 10*time.Second, "Scan duration (0 for indefinite)")
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", "table", "Output format (table, json)")
	discoverCmd.Flags().StringSliceVarP(&discoverServices, "services", "s", nil, "Filter by service UUIDs")
	discoverCmd.Flags().StringSliceVar(&discoverAllowList, "allow", nil, "Only show devices with these addresses")
	discoverCmd.Flags().StringSliceVar(&discoverBlockList, "block", nil, "Hide devices with these addresses")
	discoverCmd.Flags().BoolVarP(&discoverWatch, "watch", "w", false, "Continuously scan and update results")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if discoverFormat != "table" && discoverFormat != "json" {
		return fmt.Errorf("invalid format '%s': must be one of [table json]", discoverFormat)
	}

	// Discovery has no target device; only adapter and log settings apply
	cfg, err := resolveConfig(cmd, false)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	var serviceUUIDs []string
	if len(discoverServices) > 0 {
		serviceUUIDs, err = device.ValidateUUID(discoverServices...)
		if err != nil {
			return fmt.Errorf("invalid service UUID: %w", err)
		}
	}

	s, err := scanner.NewScanner(logger)
	if err != nil {
		return fmt.Errorf("failed to create BLE scanner: %w", err)
	}

	opts := &scanner.ScanOptions{
		Adapter:         cfg.Adapter,
		Duration:        discoverDuration,
		DuplicateFilter: true,
		ServiceUUIDs:    serviceUUIDs,
		AllowList:       discoverAllowList,
		BlockList:       discoverBlockList,
	}

	if discoverWatch {
		// Watch mode defaults to an indefinite scan
		if !cmd.Flags().Changed("duration") {
			opts.Duration = 0
		}
		return runDiscoverWatch(s, opts, logger)
	}

	return runDiscoverOnce(s, opts, logger)
}

func runDiscoverOnce(s *scanner.Scanner, opts *scanner.ScanOptions, logger *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Listen for Ctrl+C to cancel
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nCtrl+C pressed, cancelling scan...")
		cancel()
	}()

	progress := NewCountdownProgressPrinter("Scanning for BLE devices", "Scanning", opts.Duration, "Processing results")
	progress.Start()
	defer progress.Stop()

	devices, err := s.Scan(ctx, opts, progress.Callback())
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("scan failed")
		return err
	}

	progress.Stop()
	return displayDiscovered(devices)
}

func runDiscoverWatch(s *scanner.Scanner, opts *scanner.ScanOptions, logger *logrus.Logger) error {
	// Scan until interrupted by the user.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nCtrl+C pressed, cancelling scan...")
		cancel()
	}()

	devices := make(map[string]scanner.DeviceInfo)

	// Run the blocking scan in a goroutine; results stream via Events
	scanErrCh := make(chan error, 1)
	go func() {
		_, err := s.Scan(ctx, opts, nil)
		scanErrCh <- err
	}()

	redraw := func() error {
		clearScreen()
		return displayDiscovered(devices)
	}

	// Redraw periodically instead of per event to avoid flicker on a busy
	// radio environment
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return redraw()

		case err := <-scanErrCh:
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return redraw()

		case <-ticker.C:
			if err := redraw(); err != nil {
				return err
			}

		case ev := <-s.Events():
			devices[ev.DeviceInfo.Address] = ev.DeviceInfo
		}
	}
}

func displayDiscovered(devices map[string]scanner.DeviceInfo) error {
	if len(devices) == 0 {
		fmt.Println("No devices discovered")
		return nil
	}

	devList := make([]scanner.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		devList = append(devList, d)
	}
	sort.Slice(devList, func(i, j int) bool {
		if devList[i].Name != devList[j].Name {
			return devList[i].Name > devList[j].Name
		}
		return devList[i].Address < devList[j].Address
	})

	if discoverFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(devList)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tRSSI\tSERVICES\tLAST SEEN")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, dev := range devList {
		name := dev.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}

		services := strings.Join(dev.Services, ",")
		if len(services) > 30 {
			services = services[:27] + "..."
		}

		lastSeen := time.Since(dev.LastSeen).Truncate(time.Second)

		fmt.Fprintf(w, "%s\t%s\t%d dBm\t%s\t%s ago\n",
			name, dev.Address, dev.RSSI, services, lastSeen)
	}

	return w.Flush()
}

func clearScreen() {
	fmt.Print("\033[2J\033[H")
}
