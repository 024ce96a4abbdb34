package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardsage",
	Short: "API server for the CardSage credit card comparison site",
	Long: `CardSage serves the credit card comparison site's API: the card,
bank, category and article catalog, admin content management, and the chat
assistant that answers questions about Indian credit cards.`,
	PersistentPreRun: loadDotEnv,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadDotEnv(_ *cobra.Command, _ []string) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
