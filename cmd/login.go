package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bluecats/bluecats-loop-api-client/internal/client"
	"github.com/bluecats/bluecats-loop-api-client/internal/config"
	"github.com/spf13/cobra"
)

// Variables to hold flag values
var (
	host  string
	email string
	pass  string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Loop API",
	Long: `Authenticates with the provided email and password and saves the session
token locally for future commands.

Example:
  loop-cli login --host "https://loop.example.com/api" --email ops@example.com --password secret`,
	Run: func(cmd *cobra.Command, args []string) {
		// Clean up input host (remove trailing slash if present)
		host = strings.TrimRight(host, "/")

		api := client.New(client.ClientConfig{
			BaseURL:  host,
			Email:    email,
			Password: pass,
		})

		fmt.Printf("Authenticating against %s as '%s'...\n", host, email)

		if err := api.Login(context.Background(), email, pass); err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Println("Login successful. Saving configuration...")

		if err := config.SaveSession(host, api.Token()); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Session saved. You can now run commands like './loop-cli events list'.\n")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "API Base URL (e.g. https://loop.example.com/api)")
	loginCmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Account password")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
