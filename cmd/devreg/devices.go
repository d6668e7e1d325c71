package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/remiblancher/device-registry/internal/api/dto"
	"github.com/remiblancher/device-registry/pkg/device"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Inspect the device catalog",
	Long: `Inspect the device catalog.

Devices are addressed by their zero-based position in the fleet.

Examples:
  devreg devices list
  devreg devices list --os linux
  devreg devices show 3 --json`,
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all devices in catalog order",
	Args:  cobra.NoArgs,
	RunE:  runDevicesList,
}

var devicesShowCmd = &cobra.Command{
	Use:   "show <index>",
	Short: "Show one device",
	Long: `Show one device.

With --os the lookup fails unless the device runs that operating system.`,
	Args: cobra.ExactArgs(1),
	RunE: runDevicesShow,
}

var (
	devicesOS   string
	devicesJSON bool
)

func init() {
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesShowCmd)

	devicesListCmd.Flags().StringVar(&devicesOS, "os", "", "Only list devices running this OS (bare-metal, linux, windoof)")
	devicesListCmd.Flags().BoolVar(&devicesJSON, "json", false, "Output as JSON")
	devicesShowCmd.Flags().StringVar(&devicesOS, "os", "", "Require the device to run this OS")
	devicesShowCmd.Flags().BoolVar(&devicesJSON, "json", false, "Output as JSON")
}

func runDevicesList(cmd *cobra.Command, args []string) error {
	osFilter, err := parseOSFlag(devicesOS)
	if err != nil {
		return err
	}

	resp := dto.DeviceListResponse{Devices: []dto.DeviceResponse{}}
	for i, d := range registry.List() {
		if osFilter != nil && d.OS() != *osFilter {
			continue
		}
		resp.Devices = append(resp.Devices, dto.NewDeviceResponse(i, d))
	}
	resp.Total = len(resp.Devices)

	if devicesJSON {
		return printJSON(cmd, resp)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "INDEX\tCATEGORY\tVARIANT\tOS\tNAME")
	_, _ = fmt.Fprintln(w, "-----\t--------\t-------\t--\t----")
	for _, d := range resp.Devices {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.Index, d.Category, d.Variant, d.OS, d.Name)
	}
	return w.Flush()
}

func runDevicesShow(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	osFilter, err := parseOSFlag(devicesOS)
	if err != nil {
		return err
	}

	d, err := registry.Get(index, osFilter)
	if err != nil {
		return err
	}

	if devicesJSON {
		if hsm, ok := d.HSM(); ok {
			return printJSON(cmd, dto.NewHSMResponse(index, d, hsm))
		}
		return printJSON(cmd, dto.NewDeviceResponse(index, d))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Device %d:\n", index)
	fmt.Fprintf(out, "  Category: %s\n", d.Category())
	fmt.Fprintf(out, "  Variant:  %s\n", d.Variant())
	fmt.Fprintf(out, "  OS:       %s\n", d.OS())
	if d.Name() != "" {
		fmt.Fprintf(out, "  Name:     %s\n", d.Name())
	}
	if hsm, ok := d.HSM(); ok {
		fmt.Fprintf(out, "  Slots:    %d (%s keys, %d provisioned)\n", hsm.MaxSlots(), hsm.KeyAlgorithm(), hsm.Provisioned())
	}
	return nil
}

// parseIndex parses a catalog index argument.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid device index %q: must be an integer", arg)
	}
	return index, nil
}

// parseSlot parses a slot number argument. Range checks are left to the HSM.
func parseSlot(arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: must be an integer", arg)
	}
	return slot, nil
}

func parseOSFlag(value string) (*device.OS, error) {
	if value == "" {
		return nil, nil
	}
	o, err := device.ParseOS(value)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
