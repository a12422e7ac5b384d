// Package main provides the docky CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richinex/docky/cli"
	"github.com/richinex/docky/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	dbPath   string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "docky",
		Short: "Chat with your documents using retrieval-augmented generation",
		Long: `A CLI tool for asking questions about PDF and text documents.

Documents are chunked, embedded, and stored in a local SQLite database.
Answers are grounded in retrieved chunks, and interactive sessions keep
a token-bounded conversation memory that summarizes older exchanges.`,
	}

	// Global flags
	providerHelp := fmt.Sprintf("LLM provider (%s)", strings.Join(config.SupportedProviders(), ", "))
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", providerHelp)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path for the vector store")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(infoCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var stateless bool

	cmd := &cobra.Command{
		Use:   "ask [document] [question]",
		Short: "Answer a single question about a document",
		Long: `Answer a single question about a PDF or text document.

The document is chunked and embedded on first use; repeat runs against
the same database reuse the stored embeddings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.DefaultOptions()
			if provider != "" {
				opts.Provider = provider
			}
			opts.DBPath = dbPath
			opts.Stateless = stateless
			return cli.Ask(context.Background(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&stateless, "stateless", false, "Skip conversation memory for this question")

	return cmd
}

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [document]",
		Short: "Start an interactive session over a document",
		Long: `Start an interactive question-answering session over a document.

Session commands:
  /stats    show conversation counters
  /summary  show the accumulated summary and recent exchanges
  /clear    discard conversation history
  /quit     end the session`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.DefaultOptions()
			if provider != "" {
				opts.Provider = provider
			}
			opts.DBPath = dbPath
			return cli.Chat(context.Background(), args[0], opts)
		},
	}

	return cmd
}

func infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [document]",
		Short: "Show collection and conversation state for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.DefaultOptions()
			if provider != "" {
				opts.Provider = provider
			}
			opts.DBPath = dbPath
			return cli.Info(context.Background(), args[0], opts)
		},
	}

	return cmd
}
