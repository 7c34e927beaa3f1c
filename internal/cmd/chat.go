package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/fehres"
	"github.com/mohamedfathi540/RAG-001/internal/output"
	"github.com/mohamedfathi540/RAG-001/internal/session"
)

var (
	chatProject int
	chatLimit   int
	chatVerbose bool
	historyTail int
)

var chatCmd = &cobra.Command{
	Use:   "chat <question>",
	Short: "Ask a question answered from the active corpus",
	Long: `Ask a question answered from the active corpus.

The question and the answer are appended to the persisted transcript,
which is kept across invocations (capped at the most recent 50 entries).

Examples:

    fehres chat "How do I configure retries?"
    fehres chat history
    fehres chat clear`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted chat transcript",
	RunE:  runChatHistory,
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the persisted chat transcript",
	RunE:  runChatClear,
}

func init() {
	chatCmd.Flags().IntVarP(&chatProject, "project", "p", 0, "Target project id (defaults to the active selection)")
	chatCmd.Flags().IntVarP(&chatLimit, "limit", "l", 5, "Number of context chunks to retrieve")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "V", false, "Show the full prompt sent to the model")
	chatHistoryCmd.Flags().IntVarP(&historyTail, "tail", "n", 0, "Show only the last N messages")
	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatClearCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	question := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	projectID := chatProject
	if projectID == 0 {
		projectID = store.ActiveProjectID()
	}

	if err := store.AppendChatMessage(session.NewChatMessage(session.RoleUser, question)); err != nil {
		return err
	}

	answer, err := client.Index.Answer(cmd.Context(), projectID, &fehres.AnswerRequest{
		Text:        question,
		Limit:       chatLimit,
		ProjectName: store.ActiveLibraryName(),
	})
	if err != nil {
		// Keep the failure in the transcript so the user sees what happened
		// when they come back to it.
		msg := session.NewChatMessage(session.RoleSystem, err.Error())
		_ = store.AppendChatMessage(msg)
		return err
	}

	reply := session.NewChatMessage(session.RoleAssistant, answer.Answer)
	reply.Metadata = &session.MessageMetadata{
		FullPrompt:  answer.FullPrompt,
		ChatHistory: answer.ChatHistory,
	}
	if err := store.AppendChatMessage(reply); err != nil {
		return err
	}

	output.Markdown(answer.Answer, string(store.Theme()))
	if chatVerbose && answer.FullPrompt != "" {
		fmt.Println(output.Subtle("--- full prompt ---"))
		fmt.Println(output.Subtle(answer.FullPrompt))
	}
	return nil
}

func runChatHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	history := store.ChatHistory()
	if historyTail > 0 && len(history) > historyTail {
		history = history[len(history)-historyTail:]
	}
	if len(history) == 0 {
		output.Info("transcript is empty")
		return nil
	}

	for _, msg := range history {
		label := fmt.Sprintf("[%s] %s", msg.Role, msg.Timestamp.Local().Format("2006-01-02 15:04"))
		fmt.Println(output.Subtle(label))
		fmt.Println(msg.Content)
		fmt.Println()
	}
	return nil
}

func runChatClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.ClearChatHistory(); err != nil {
		return err
	}
	output.Success("transcript cleared")
	return nil
}
