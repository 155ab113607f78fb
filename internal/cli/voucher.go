package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brolli/brolli/internal/voucher"
	"github.com/brolli/brolli/internal/worker"
)

var (
	voucherVariant string
	voucherTimeout time.Duration
)

var voucherCmd = &cobra.Command{
	Use:   "voucher",
	Short: "Sign mint vouchers",
	Long: `Voucher signs EIP-712 vouchers with the configured signer key
(LICENSE_SIGNER_PRIVATE_KEY) for the Brolli contract on the active network.
Vouchers expire 600 seconds after issuance.`,
}

var voucherIssueCmd = &cobra.Command{
	Use:   "issue <beneficiary>",
	Short: "Sign a voucher for one wallet",
	Long: `Issue signs one voucher. The purchase and human variants first check
that the wallet approved at least 1 USDC to the resource wallet.

Example:
  brolli voucher issue 0x70997970C51812dc3A010C7d01b50e0d17dc79C8
  brolli voucher issue 0x7099... --variant purchase --network base`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := parseVariant(voucherVariant)
		if err != nil {
			return err
		}
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), voucherTimeout)
		defer cancel()

		issued, err := a.issuer.Issue(ctx, args[0], variant)
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), issued)
	},
}

var voucherBatchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Sign vouchers for every wallet in a file",
	Long: `Batch reads one beneficiary per line (blank lines and # comments are
skipped, repeated lines kept once) and signs all vouchers with a shared
expiry. Any invalid address fails the whole batch.

Example:
  brolli voucher batch wallets.txt > vouchers.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		beneficiaries, err := worker.ReadLines(args[0])
		if err != nil {
			return fmt.Errorf("read beneficiaries: %w", err)
		}
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Signing %d vouchers on %s\n", len(beneficiaries), a.issuer.Network())
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), voucherTimeout)
		defer cancel()

		batch, err := a.issuer.IssueBatch(ctx, beneficiaries)
		if err != nil {
			return err
		}
		return writeJSONTo(cmd.OutOrStdout(), batch)
	},
}

func parseVariant(s string) (voucher.Variant, error) {
	switch v := voucher.Variant(s); v {
	case voucher.VariantAgent, voucher.VariantPurchase, voucher.VariantHuman:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q (supported: agent, purchase, human)", s)
}

func init() {
	rootCmd.AddCommand(voucherCmd)
	voucherCmd.AddCommand(voucherIssueCmd, voucherBatchCmd)

	voucherCmd.PersistentFlags().DurationVar(&voucherTimeout, "timeout", 30*time.Second, "timeout including the allowance read")
	voucherIssueCmd.Flags().StringVar(&voucherVariant, "variant", string(voucher.VariantAgent), "issuance variant (agent, purchase, human)")
}
