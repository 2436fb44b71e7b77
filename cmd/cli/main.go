package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iho/marathon-wallet/internal/adapter/http/middleware"
	"github.com/iho/marathon-wallet/internal/domain"
	"github.com/iho/marathon-wallet/internal/infrastructure/auth"
	"github.com/iho/marathon-wallet/internal/infrastructure/postgres"
)

// Overridable in tests.
var (
	migrateUp   = postgres.RunMigrations
	migrateDown = postgres.RunMigrationsDown
)

type options struct {
	baseURL  string
	timeout  time.Duration
	token    string
	operator string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "wallet-cli",
		Short:         "Marathon wallet operator tool",
		Long:          `Operator commands for the marathon wallet service: ledger checks, withdrawal review, wallet freezes and schema migrations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("WALLET_URL", "http://localhost:8080"), "Base URL of the wallet API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("WALLET_TOKEN"), "Bearer token with the admin role")
	rootCmd.PersistentFlags().StringVar(&opts.operator, "operator", envOr("WALLET_OPERATOR", "cli"), "Operator id sent as X-User-Id when no token is given")

	rootCmd.AddCommand(
		ledgerCmd(opts),
		walletCmd(opts),
		withdrawalsCmd(opts),
		paymentsCmd(opts),
		auditCmd(opts),
		migrateCmd(),
		tokenCmd(),
	)

	return rootCmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "ledger", Short: "Ledger checks"}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "consistency",
			Short: "Check that balances equal the sum of ledger entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				return newClient(opts).call(cmd, http.MethodGet, "/admin/ledger/consistency", nil)
			},
		},
		&cobra.Command{
			Use:   "report",
			Short: "Reconcile every wallet and print the report",
			RunE: func(cmd *cobra.Command, args []string) error {
				return newClient(opts).call(cmd, http.MethodGet, "/admin/ledger/report", nil)
			},
		},
		&cobra.Command{
			Use:   "reconcile <account-id>",
			Short: "Reconcile a single wallet account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return newClient(opts).call(cmd, http.MethodGet, "/admin/ledger/accounts/"+url.PathEscape(args[0])+"/reconcile", nil)
			},
		},
	)

	return cmd
}

func walletCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "wallet", Short: "Wallet administration"}

	for _, action := range []string{"freeze", "unfreeze"} {
		cmd.AddCommand(&cobra.Command{
			Use:   action + " <user-id>",
			Short: strings.ToUpper(action[:1]) + action[1:] + " a user's wallet",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return newClient(opts).call(cmd, http.MethodPost, "/admin/wallets/"+url.PathEscape(args[0])+"/"+action, nil)
			},
		})
	}

	return cmd
}

func withdrawalsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "withdrawals", Short: "Withdrawal review"}

	var status, note string
	reviewCmd := &cobra.Command{
		Use:   "review <withdrawal-id>",
		Short: "Move a withdrawal to APPROVED, PAID or REJECTED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"status": strings.ToUpper(status), "note": note}
			return newClient(opts).call(cmd, http.MethodPost, "/admin/withdrawals/"+url.PathEscape(args[0])+"/review", body)
		},
	}
	reviewCmd.Flags().StringVar(&status, "status", "", "Target status (APPROVED, PAID, REJECTED)")
	reviewCmd.Flags().StringVar(&note, "note", "", "Reviewer note")
	_ = reviewCmd.MarkFlagRequired("status")

	refundCmd := &cobra.Command{
		Use:   "refund <withdrawal-id>",
		Short: "Credit a rejected withdrawal back to the wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).call(cmd, http.MethodPost, "/admin/withdrawals/"+url.PathEscape(args[0])+"/refund", nil)
		},
	}

	cmd.AddCommand(reviewCmd, refundCmd)
	return cmd
}

func paymentsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "payments", Short: "Payment maintenance"}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync <payment-id>",
		Short: "Poll the gateway and apply the payment's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).call(cmd, http.MethodPost, "/admin/payments/"+url.PathEscape(args[0])+"/sync", nil)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "expire",
		Short: "Cancel pending payments whose invoices have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient(opts).call(cmd, http.MethodPost, "/admin/payments/expire", nil)
		},
	})

	return cmd
}

func auditCmd(opts *options) *cobra.Command {
	var userID, action, resourceType, resourceID string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit log records",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "user_id", userID)
			setIf(q, "action", action)
			setIf(q, "resource_type", resourceType)
			setIf(q, "resource_id", resourceID)
			if limit > 0 {
				q.Set("limit", fmt.Sprint(limit))
			}

			path := "/admin/audit-logs"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return newClient(opts).call(cmd, http.MethodGet, path, nil)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Filter by user id")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&resourceType, "resource-type", "", "Filter by resource type")
	cmd.Flags().StringVar(&resourceID, "resource-id", "", "Filter by resource id")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{Use: "migrate", Short: "Schema migrations"}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "migrations"), "Migrations directory or source URL")

	run := func(fn func(string, string) error, done string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			if err := fn(databaseURL, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), done)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", RunE: run(migrateUp, "migrations applied")},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", RunE: run(migrateDown, "migration rolled back")},
	)

	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, userID, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{ID: userID, Role: domain.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	cmd.Flags().StringVar(&userID, "user", "cli", "Subject user id")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role claim (user or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}

type apiClient struct {
	opts *options
	http *http.Client
}

func newClient(opts *options) *apiClient {
	return &apiClient{opts: opts, http: &http.Client{Timeout: opts.timeout}}
}

// call performs the request, pretty-prints the JSON reply and fails on any
// non-2xx status.
func (c *apiClient) call(cmd *cobra.Command, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(c.opts.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set(middleware.IdempotencyKeyHeader, uuid.NewString())
	}
	if c.opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
	} else {
		req.Header.Set(middleware.UserIDHeader, c.opts.operator)
		req.Header.Set(middleware.UserRoleHeader, string(domain.RoleAdmin))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	printJSON(cmd.OutOrStdout(), respBody)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed with status %d", method, path, resp.StatusCode)
	}
	return nil
}

func printJSON(out io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(out, string(raw))
		return
	}
	fmt.Fprintln(out, buf.String())
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
