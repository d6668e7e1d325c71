package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/device-registry/internal/api/dto"
	"github.com/remiblancher/device-registry/internal/hsmprobe"
)

var hsmCmd = &cobra.Command{
	Use:   "hsm",
	Short: "HSM key-slot commands",
	Long: `Inspect HSMs of the catalog and manage their key slots.

Slots are numbered from 1. USB HSMs have 2 slots, server HSMs have 5.
Signing requires a key in the slot; key generation is idempotent.

The catalog lives for one invocation, so keys generated by 'hsm keygen' are
gone when it exits. To sign in one run, pre-provision the slot with
--provision or with a "provisioned" list in the fleet file.

Examples:
  # Show slot states of HSM 1
  devreg hsm info 1

  # Provision slot 2 of HSM 1 and sign with it
  devreg hsm sign 1 2 --provision 2

  # Discover slots of a physical PKCS#11 module
  devreg hsm probe --lib /usr/lib/softhsm/libsofthsm2.so`,
}

var hsmInfoCmd = &cobra.Command{
	Use:   "info <index>",
	Short: "Show an HSM and its slot states",
	Args:  cobra.ExactArgs(1),
	RunE:  runHSMInfo,
}

var hsmKeygenCmd = &cobra.Command{
	Use:   "keygen <index> <slot>...",
	Short: "Generate keys in HSM slots",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runHSMKeygen,
}

var hsmSignCmd = &cobra.Command{
	Use:   "sign <index> <slot>",
	Short: "Produce the signature of an HSM slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runHSMSign,
}

var hsmProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "List slots and tokens of a PKCS#11 module",
	Long: `List all available slots and tokens in a PKCS#11 module.

This command does not require authentication and shows:
  - Slot ID and description
  - Token label and serial (if present)
  - Token manufacturer

With --token, the command fails unless a token with that label is present.

Examples:
  devreg hsm probe --lib /usr/lib/softhsm/libsofthsm2.so
  devreg hsm probe --lib /usr/lib/softhsm/libsofthsm2.so --token devreg`,
	Args: cobra.NoArgs,
	RunE: runHSMProbe,
}

var (
	hsmLib       string
	hsmToken     string
	hsmProvision []int
	hsmJSON      bool
)

func init() {
	hsmCmd.AddCommand(hsmInfoCmd)
	hsmCmd.AddCommand(hsmKeygenCmd)
	hsmCmd.AddCommand(hsmSignCmd)
	hsmCmd.AddCommand(hsmProbeCmd)

	hsmInfoCmd.Flags().BoolVar(&hsmJSON, "json", false, "Output as JSON")
	hsmSignCmd.Flags().IntSliceVar(&hsmProvision, "provision", nil, "Generate keys in these slots before signing")
	hsmSignCmd.Flags().BoolVar(&hsmJSON, "json", false, "Output as JSON")

	hsmProbeCmd.Flags().StringVar(&hsmLib, "lib", "", "Path to PKCS#11 library (required)")
	_ = hsmProbeCmd.MarkFlagRequired("lib")
	hsmProbeCmd.Flags().StringVar(&hsmToken, "token", "", "Require a token with this label")
}

func runHSMInfo(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	hsm, err := registry.GetHSM(index)
	if err != nil {
		return err
	}
	d, err := registry.Get(index, nil)
	if err != nil {
		return err
	}
	resp := dto.NewHSMResponse(index, d, hsm)

	if hsmJSON {
		return printJSON(cmd, resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HSM %d: %s\n", index, d)
	fmt.Fprintf(out, "  Key algorithm: %s\n", resp.KeyAlgorithm)
	fmt.Fprintf(out, "  Slots:         %d\n", resp.MaxSlots)
	for _, s := range resp.Slots {
		fmt.Fprintf(out, "    [%d] %s\n", s.Slot, slotLabel(s.HasKey))
	}
	return nil
}

func runHSMKeygen(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, arg := range args[1:] {
		slot, err := parseSlot(arg)
		if err != nil {
			return err
		}
		state, err := registry.GenerateKey(index, slot)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "HSM %d slot %d: %s\n", index, state.Slot, slotLabel(state.HasKey))
	}
	return nil
}

func runHSMSign(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	slot, err := parseSlot(args[1])
	if err != nil {
		return err
	}

	for _, p := range hsmProvision {
		if _, err := registry.GenerateKey(index, p); err != nil {
			return err
		}
	}

	hsm, sig, err := registry.Sign(index, slot)
	if err != nil {
		return err
	}

	if hsmJSON {
		return printJSON(cmd, dto.NewSignResponse(index, slot, hsm, sig))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", hex.EncodeToString(sig))
	return nil
}

func runHSMProbe(cmd *cobra.Command, args []string) error {
	info, err := hsmprobe.ListSlots(hsmLib)
	if err != nil {
		return fmt.Errorf("failed to list HSM slots: %w", err)
	}
	return printModuleInfo(cmd.OutOrStdout(), info, hsmToken)
}

// printModuleInfo lists the slots of info. A non-empty token label must
// match a present token.
func printModuleInfo(out io.Writer, info *hsmprobe.ModuleInfo, token string) error {
	fmt.Fprintf(out, "PKCS#11 Module: %s\n\n", info.ModulePath)

	if len(info.Slots) == 0 {
		fmt.Fprintln(out, "No slots found.")
	}

	for _, slot := range info.Slots {
		fmt.Fprintf(out, "Slot %d:\n", slot.ID)
		fmt.Fprintf(out, "  Description:  %s\n", strings.TrimSpace(slot.Description))

		if slot.HasToken {
			fmt.Fprintf(out, "  Token Label:  %s\n", strings.TrimSpace(slot.TokenLabel))
			fmt.Fprintf(out, "  Token Serial: %s\n", hsmprobe.MaskSerial(slot.TokenSerial))
			if slot.Manufacturer != "" {
				fmt.Fprintf(out, "  Manufacturer: %s\n", strings.TrimSpace(slot.Manufacturer))
			}
		} else {
			fmt.Fprintf(out, "  Token:        (not present)\n")
		}
		fmt.Fprintln(out)
	}
	if len(info.Slots) > 0 {
		fmt.Fprintf(out, "%d of %d slots hold a token.\n", info.Tokens(), len(info.Slots))
	}

	if token == "" {
		return nil
	}
	slot, ok := info.FindToken(token)
	if !ok {
		return fmt.Errorf("token %q not found in %s", token, info.ModulePath)
	}
	fmt.Fprintf(out, "Token %q found in slot %d.\n", token, slot.ID)
	return nil
}

func slotLabel(hasKey bool) string {
	if hasKey {
		return "key provisioned"
	}
	return "empty"
}
