package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brolli/brolli/internal/chat"
)

var (
	askJSON    bool
	askLLM     bool
	askTimeout time.Duration
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Route a question to an FAQ topic",
	Long: `Classify scores the question against every FAQ topic and prints the
winning topic with its approved answer.

Example:
  brolli classify "How much does the licence cost?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		text := strings.Join(args, " ")
		res := a.responder.Classify(text)
		topic := a.catalog.TopicByID(res.ID)

		out := cmd.OutOrStdout()
		if askJSON {
			return writeJSONTo(out, map[string]any{"topicId": topic.ID, "score": res.Score, "title": topic.Title})
		}
		fmt.Fprintf(out, "Topic:  %s (%s)\n", topic.ID, topic.Title)
		fmt.Fprintf(out, "Score:  %.2f\n\n", res.Score)
		fmt.Fprintln(out, strings.TrimSpace(topic.Answer))
		return nil
	},
}

var agentCmd = &cobra.Command{
	Use:   "agent <text>",
	Short: "Answer a message with the rule-based sales agent",
	Long: `Agent runs the sales agent without a language model: the patent
coverage action handles product descriptions, everything else is answered
from the FAQ.

Example:
  brolli agent "We are building a stablecoin payment rail"
  brolli agent "Can I buy licences for my whole team?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		reply := a.responder.Respond(cmd.Context(), strings.Join(args, " "))
		if askJSON {
			return writeJSONTo(cmd.OutOrStdout(), reply)
		}
		if verbose {
			label := reply.TopicID
			if reply.Action != "" {
				label = reply.Action
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n\n", reply.Source, label)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the chat assistant a question",
	Long: `Chat answers one message the way the website widget does. With --llm
the configured provider (llm.provider) writes the reply, grounded in the
approved FAQ answer and patent excerpts; otherwise the rule-based agent
answers.

Example:
  brolli chat "What does soulbound mean?"
  OPENAI_API_KEY=sk-... brolli chat --llm "Do I need this for a DEX?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(appOptions{llm: askLLM})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), askTimeout)
		defer cancel()

		resp, err := a.chat.Reply(ctx, chat.Request{UserMessage: strings.Join(args, " ")})
		if err != nil {
			return err
		}
		if askJSON {
			return writeJSONTo(cmd.OutOrStdout(), resp)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s]\n\n", resp.Source)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Response)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{classifyCmd, agentCmd, chatCmd} {
		c.Flags().BoolVar(&askJSON, "json", false, "print JSON instead of text")
		rootCmd.AddCommand(c)
	}
	chatCmd.Flags().BoolVar(&askLLM, "llm", false, "use the configured LLM provider")
	chatCmd.Flags().DurationVar(&askTimeout, "timeout", time.Minute, "request timeout")
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
