package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brolli/brolli/internal/prompt"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the sales agent system prompt",
	Long:  `Print the system prompt built from the agent character, as sent to the chat model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprint(cmd.OutOrStdout(), prompt.BuildSalesSystemPrompt(a.catalog.Character))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
