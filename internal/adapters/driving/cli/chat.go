package cli

import (
	"bufio"
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/casaverde-labs/mira-cli/internal/adapters/driving/tui"
	"github.com/casaverde-labs/mira-cli/internal/core/ports/driving"
	"github.com/casaverde-labs/mira-cli/internal/logger"
	"github.com/casaverde-labs/mira-cli/internal/watcher"
)

var (
	chatPlain  bool
	chatWatch  bool
	chatResume string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Starts an interactive chat session against the indexed knowledge
base. The session history is persisted on exit and can be resumed
later with --resume.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use a plain line-based prompt instead of the TUI")
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "re-ingest documents as they change during the session")
	chatCmd.Flags().StringVar(&chatResume, "resume", "", "resume a previous session by ID")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	chat, eng, cleanup, err := buildChat(ctx, appSettings, chatResume)
	if err != nil {
		return err
	}
	defer cleanup()

	if chatWatch {
		w, err := watcher.New(eng.ingest, appSettings.KnowledgeDir, 0)
		if err != nil {
			logger.Warn("watcher disabled: %v", err)
		} else {
			go func() { _ = w.Run(ctx) }()
		}
	}

	if chatPlain {
		return runPlainChat(ctx, cmd, chat)
	}
	return tui.Run(ctx, chat)
}

// runPlainChat is a minimal readline loop for terminals where the TUI
// is unwanted, such as when output is piped.
func runPlainChat(ctx context.Context, cmd *cobra.Command, chat driving.ChatService) error {
	cmd.Println("Chat with Mira. Type /quit to exit.")
	cmd.Println()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		answer, err := chat.Ask(ctx, line)
		if err != nil {
			cmd.Printf("error: %v\n", err)
			continue
		}
		cmd.Printf("mira> %s\n\n", answer.Text)
	}

	if err := chat.End(ctx); err != nil {
		logger.Warn("session not saved: %v", err)
	}
	return scanner.Err()
}
