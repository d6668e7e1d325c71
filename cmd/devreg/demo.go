package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apierrors "github.com/remiblancher/device-registry/internal/api/errors"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through the catalog and the slot lifecycle",
	Long: `Walk through the catalog and the slot lifecycle.

Prints every device, then tries each index (plus one past the end) as an
HSM. For each HSM found, slot 1 is signed before and after a key is
generated; the first attempt fails with KEY_NOT_PROVISIONED. Failures are
printed as warnings and do not stop the walkthrough.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	devices := registry.List()

	for i, d := range devices {
		fmt.Fprintf(out, "Device %d:\n", i)
		fmt.Fprintf(out, "  OS:   %s\n", d.OS())
		fmt.Fprintf(out, "  Type: %s/%s\n", d.Category(), d.Variant())
	}
	fmt.Fprintln(out)

	for i := 0; i <= len(devices); i++ {
		demoHSM(out, i)
	}

	fmt.Fprintln(out, ".. walkthrough complete ..")
	return nil
}

func demoHSM(out io.Writer, index int) {
	hsm, err := registry.GetHSM(index)
	if err != nil {
		fmt.Fprintf(out, "Warning: %s\n", apierrors.Tag(err))
		return
	}

	fmt.Fprintf(out, "HSM %d (%s, %d slots):\n", index, hsm.Variant(), hsm.MaxSlots())
	demoSign(out, index)
	if _, err := registry.GenerateKey(index, 1); err != nil {
		fmt.Fprintf(out, "  Warning(keygen): %s\n", apierrors.Tag(err))
		return
	}
	fmt.Fprintln(out, "  Generated key in slot 1")
	demoSign(out, index)
}

func demoSign(out io.Writer, index int) {
	_, sig, err := registry.Sign(index, 1)
	if err != nil {
		fmt.Fprintf(out, "  Warning(sign): %s\n", apierrors.Tag(err))
		return
	}
	fmt.Fprintf(out, "  Sign slot 1: 0x%s\n", hex.EncodeToString(sig))
}
