package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brolli/brolli/internal/risk"
)

var (
	riskJSON     bool
	riskVertical string
	riskUseCases []string
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Estimate patent exposure",
	Long: `Risk estimates patent exposure either from a free-text product
description or from a vertical and its use cases in the risk graph.`,
}

var riskAssessCmd = &cobra.Command{
	Use:   "assess <description>",
	Short: "Assess a product description",
	Long: `Assess matches the description against the risk verticals and prints
the recommendation the sales agent would give.

Example:
  brolli risk assess "HIPAA compliant patient records on chain"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.engine.Assess(strings.Join(args, " "))
		if riskJSON {
			return writeJSONTo(cmd.OutOrStdout(), res)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s]\n\n", res.Action)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

var riskGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Assess use cases within a vertical",
	Long: `Graph averages the risk of the selected use cases within one vertical
and prints a purchase recommendation.

Example:
  brolli risk graph --vertical payments --use-case stablecoin_issuance --use-case cross_border`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.engine.AssessGraph(risk.Request{Vertical: riskVertical, UseCases: riskUseCases})
		if err != nil {
			return err
		}
		if riskJSON {
			return writeJSONTo(cmd.OutOrStdout(), resp)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Vertical:        %s (%s)\n", resp.Vertical, resp.RiskTier)
		fmt.Fprintf(out, "Risk score:      %.1f\n", resp.RiskScore)
		fmt.Fprintf(out, "Active patents:  %d\n", resp.TotalPatents)
		fmt.Fprintf(out, "Recommendation:  %s\n", resp.Recommendation)
		fmt.Fprintf(out, "Licence:         %s\n", resp.LicensePrice)
		fmt.Fprintf(out, "%s\n\n", resp.ROI)
		fmt.Fprintln(out, resp.Justification)
		if resp.Disclaimer != "" {
			fmt.Fprintf(out, "\n%s\n", resp.Disclaimer)
		}
		return nil
	},
}

var riskVerticalsCmd = &cobra.Command{
	Use:   "verticals",
	Short: "List risk verticals and their use cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		listing := a.engine.Verticals()
		if riskJSON {
			return writeJSONTo(cmd.OutOrStdout(), listing)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Risk graph %s (updated %s)\n\n", listing.Version, listing.LastUpdated)
		for _, v := range listing.AvailableVerticals {
			fmt.Fprintf(out, "%-12s %-10s %4d patents  %s\n", v.ID, v.RiskTier, v.PatentCount, v.Name)
			if len(v.UseCases) > 0 {
				fmt.Fprintf(out, "%-12s use cases: %s\n", "", strings.Join(v.UseCases, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.AddCommand(riskAssessCmd, riskGraphCmd, riskVerticalsCmd)

	riskCmd.PersistentFlags().BoolVar(&riskJSON, "json", false, "print JSON instead of text")
	riskGraphCmd.Flags().StringVar(&riskVertical, "vertical", "", "vertical key, see 'brolli risk verticals'")
	riskGraphCmd.Flags().StringSliceVar(&riskUseCases, "use-case", nil, "use case key (repeatable)")
	_ = riskGraphCmd.MarkFlagRequired("vertical")
}
