package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesho254/SavingsModule/internal/domain"
	"github.com/mesho254/SavingsModule/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "savings-cli",
		Short: "Savings ledger CLI tool",
		Long:  `A command line interface for interacting with the savings ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the savings API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")

	rootCmd.AddCommand(reconcileCmd(), pendingCmd(), mintTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run a reconciliation audit",
		Run: func(cmd *cobra.Command, args []string) {
			runReconciliation()
		},
	}
}

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List pending withdrawals",
		Run: func(cmd *cobra.Command, args []string) {
			listPending()
		},
	}
}

func mintTokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint-token",
		Short: "Mint a JWT for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := auth.NewJWTManager(secret, ttl)
			signed, err := manager.Generate(&domain.User{
				ID:    userID,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret")
	cmd.Flags().StringVar(&userID, "user", "local-admin", "User ID for the claims")
	cmd.Flags().StringVar(&email, "email", "admin@localhost", "Email for the claims")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role for the claims")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func runReconciliation() {
	body, status, err := doRequest(http.MethodPost, "/api/v1/admin/reconciliation", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Reconciliation FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Reconciliation status: %s\n", result["status"])
	printJSON(result)
}

func listPending() {
	body, status, err := doRequest(http.MethodGet, "/api/v1/admin/withdrawals/pending", nil)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Listing FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result []map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pending withdrawals: %d\n", len(result))
	printJSON(result)
}

func doRequest(method, path string, body io.Reader) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return data, resp.StatusCode, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
