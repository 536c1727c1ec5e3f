package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var askShowSources bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Long: `Answers one question and exits. The knowledge directory is indexed
first; the question is then routed to the knowledge base, the web, or
both before generation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print routing decision and sources used")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := cmd.Context()

	chat, _, cleanup, err := buildChat(ctx, appSettings, "")
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := chat.Ask(ctx, query)
	if err != nil {
		return err
	}

	cmd.Println(answer.Text)
	if askShowSources {
		cmd.Printf("\n[route: %s | sources: %s]\n",
			answer.Decision, strings.Join(answer.Sources, ", "))
	}

	return chat.End(ctx)
}
