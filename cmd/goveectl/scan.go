package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/govee-tools/goveectl/inspector"
	"github.com/govee-tools/goveectl/internal/device"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the strip's GATT services and characteristics",
	Long: `Connects to the strip and walks its GATT database, listing every
service and characteristic with its properties. Useful for finding the
control characteristics of an untested model.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanJSON bool

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output as JSON")
}

// serviceListing is the JSON shape of one discovered service.
type serviceListing struct {
	UUID            string                `json:"uuid"`
	Name            string                `json:"name,omitempty"`
	Characteristics []characteristicEntry `json:"characteristics"`
}

type characteristicEntry struct {
	UUID       string   `json:"uuid"`
	Name       string   `json:"name,omitempty"`
	Properties []string `json:"properties"`
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setupCommand(cmd)
	if err != nil {
		return err
	}

	opts := &inspector.InspectOptions{
		Adapter:        cfg.Adapter,
		ConnectTimeout: cfg.ConnectTimeout,
	}

	progress := NewProgressPrinter(fmt.Sprintf("Inspecting %s", cfg.Address), "Connecting", "Processing results")
	progress.Start()
	defer progress.Stop()

	listings, err := inspector.InspectDevice(context.Background(), cfg.Address, opts, logger, progress.Callback(),
		func(dev device.Device) ([]serviceListing, error) {
			conn := dev.GetConnection()
			if conn == nil {
				return nil, device.ErrNotConnected
			}
			return collectServices(conn), nil
		})
	if err != nil {
		return err
	}

	progress.Stop()
	if scanJSON {
		return displayServicesJSON(listings)
	}
	return displayServicesTable(cfg.Address, listings)
}

func collectServices(conn device.Connection) []serviceListing {
	services := conn.Services()
	listings := make([]serviceListing, 0, len(services))

	for _, svc := range services {
		listing := serviceListing{
			UUID: svc.UUID(),
			Name: svc.KnownName(),
		}
		for _, char := range svc.GetCharacteristics() {
			listing.Characteristics = append(listing.Characteristics, characteristicEntry{
				UUID:       char.UUID(),
				Name:       char.KnownName(),
				Properties: propertyNames(char.GetProperties()),
			})
		}
		listings = append(listings, listing)
	}

	return listings
}

// propertyNames flattens the set property flags into display names.
func propertyNames(props device.Properties) []string {
	if props == nil {
		return nil
	}

	var names []string
	for _, p := range []device.Property{
		props.Broadcast(),
		props.Read(),
		props.Write(),
		props.WriteWithoutResponse(),
		props.Notify(),
		props.Indicate(),
		props.AuthenticatedSignedWrites(),
		props.ExtendedProperties(),
	} {
		if p != nil {
			names = append(names, p.KnownName())
		}
	}
	return names
}

func displayServicesTable(address string, listings []serviceListing) error {
	if len(listings) == 0 {
		fmt.Println("No services discovered")
		return nil
	}

	fmt.Printf("Device %s\n\n", address)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tCHARACTERISTIC\tNAME\tPROPERTIES")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, svc := range listings {
		svcLabel := svc.UUID
		if svc.Name != "" {
			svcLabel = fmt.Sprintf("%s (%s)", svc.UUID, svc.Name)
		}

		if len(svc.Characteristics) == 0 {
			fmt.Fprintf(w, "%s\t\t\t\n", svcLabel)
			continue
		}

		for i, char := range svc.Characteristics {
			label := svcLabel
			if i > 0 {
				label = ""
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				label, char.UUID, char.Name, strings.Join(char.Properties, ","))
		}
	}

	return w.Flush()
}

func displayServicesJSON(listings []serviceListing) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listings)
}
