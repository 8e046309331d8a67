package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/goraffle/internal/adapter/http/dto"
	"github.com/iho/goraffle/internal/domain"
	"github.com/iho/goraffle/internal/infrastructure/auth"
	"github.com/iho/goraffle/internal/infrastructure/config"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &clientOptions{}

	rootCmd := &cobra.Command{
		Use:           "goraffle",
		Short:         "GoRaffle CLI tool",
		Long:          `A command line interface for interacting with the GoRaffle API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the GoRaffle API")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.StringVar(&opts.token, "token", os.Getenv("GORAFFLE_TOKEN"), "Bearer token (see 'goraffle token')")
	flags.StringVar(&opts.caller, "as", "", "Caller identity sent when no token is given")
	flags.StringVar(&opts.role, "role", "", "Caller role sent with --as (admin or participant)")
	flags.StringVar(&opts.idempotencyKey, "idempotency-key", "", "Idempotency key for write requests (random when empty)")

	client := func() *apiClient { return newAPIClient(opts) }

	rootCmd.AddCommand(
		raffleCmd(client),
		accountCmd(client),
		assetCmd(client),
		ledgerCmd(client),
		meCmd(client),
		tokenCmd(),
	)

	return rootCmd
}

// show runs a GET against path and prints the JSON body.
func show(client func() *apiClient, path string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		raw, err := client().get(cmd.Context(), path)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), raw)
	}
}

func pagedPath(base string, limit, offset int, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func raffleCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle operations",
	}

	var (
		prizeAssetID string
		entryPrice   string
		maxEntries   int64
		endAt        string
		duration     time.Duration
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Initialize a raffle with the caller as authority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			price, err := decimal.NewFromString(entryPrice)
			if err != nil {
				return fmt.Errorf("invalid --entry-price: %w", err)
			}

			end, err := resolveEnd(endAt, duration, time.Now())
			if err != nil {
				return err
			}

			raw, err := client().post(cmd.Context(), "/api/v1/raffles", dto.InitializeRaffleRequest{
				EndTimestamp: end,
				PrizeAssetID: prizeAssetID,
				EntryPrice:   price,
				MaxEntries:   maxEntries,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	createCmd.Flags().StringVar(&prizeAssetID, "prize-asset", "", "Prize asset ID held by the caller")
	createCmd.Flags().StringVar(&entryPrice, "entry-price", "", "Price of a single entry in tokens")
	createCmd.Flags().Int64Var(&maxEntries, "max-entries", 0, "Entry cap (0 for uncapped)")
	createCmd.Flags().StringVar(&endAt, "end", "", "End timestamp (RFC3339)")
	createCmd.Flags().DurationVar(&duration, "duration", 0, "End the raffle this long from now")
	_ = createCmd.MarkFlagRequired("prize-asset")
	_ = createCmd.MarkFlagRequired("entry-price")
	createCmd.MarkFlagsMutuallyExclusive("end", "duration")

	var numEntries int64
	enterCmd := &cobra.Command{
		Use:   "enter RAFFLE_ID",
		Short: "Buy entries in a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := client().post(cmd.Context(), "/api/v1/raffles/"+url.PathEscape(args[0])+"/entries",
				dto.EnterRaffleRequest{NumEntries: numEntries})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	enterCmd.Flags().Int64VarP(&numEntries, "entries", "n", 1, "Number of entries to buy")

	action := func(use, short, verb string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " RAFFLE_ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := client().post(cmd.Context(), "/api/v1/raffles/"+url.PathEscape(args[0])+"/"+verb, nil)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), raw)
			},
		}
	}

	showCmd := &cobra.Command{
		Use:   "show RAFFLE_ID",
		Short: "Show a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client, "/api/v1/raffles/"+url.PathEscape(args[0]))(cmd, args)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify RAFFLE_ID",
		Short: "Re-check a raffle against its entry ledger and escrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client, "/api/v1/raffles/"+url.PathEscape(args[0])+"/verify")(cmd, args)
		},
	}

	var limit, offset int
	entriesCmd := &cobra.Command{
		Use:   "entries RAFFLE_ID",
		Short: "List the entry ledger of a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pagedPath("/api/v1/raffles/"+url.PathEscape(args[0])+"/entries", limit, offset, nil)
			return show(client, path)(cmd, args)
		},
	}
	entriesCmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	entriesCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	var eventsLimit, eventsOffset int
	eventsCmd := &cobra.Command{
		Use:   "events RAFFLE_ID",
		Short: "Show the recorded transitions of a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pagedPath("/api/v1/raffles/"+url.PathEscape(args[0])+"/events", eventsLimit, eventsOffset, nil)
			return show(client, path)(cmd, args)
		},
	}
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "Page size")
	eventsCmd.Flags().IntVar(&eventsOffset, "offset", 0, "Page offset")

	var status string
	var listLimit, listOffset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List raffles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := url.Values{}
			if status != "" {
				extra.Set("status", status)
			}
			return show(client, pagedPath("/api/v1/raffles", listLimit, listOffset, extra))(cmd, args)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Page size")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Page offset")

	cmd.AddCommand(
		createCmd,
		enterCmd,
		action("close", "Close a raffle whose deadline has passed", "close"),
		action("draw", "Draw the winner of an ended raffle", "draw"),
		action("claim", "Claim the prize as the recorded winner", "claim"),
		showCmd,
		verifyCmd,
		entriesCmd,
		eventsCmd,
		listCmd,
	)

	return cmd
}

// resolveEnd picks the raffle deadline from either an absolute timestamp
// or a duration relative to now.
func resolveEnd(endAt string, d time.Duration, now time.Time) (time.Time, error) {
	switch {
	case endAt != "":
		t, err := time.Parse(time.RFC3339, endAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		return t, nil
	case d > 0:
		return now.Add(d).UTC().Truncate(time.Second), nil
	default:
		return time.Time{}, errors.New("one of --end or --duration is required")
	}
}

func accountCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Token account operations",
	}

	var owner string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a token account (defaults to the caller)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := client().post(cmd.Context(), "/api/v1/accounts", dto.CreateAccountRequest{Owner: owner})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	createCmd.Flags().StringVar(&owner, "owner", "", "Account owner identity")

	var amount string
	mintCmd := &cobra.Command{
		Use:   "mint ACCOUNT_ID",
		Short: "Mint tokens into an account (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			raw, err := client().post(cmd.Context(), "/api/v1/accounts/"+url.PathEscape(args[0])+"/mint",
				dto.MintRequest{Amount: value})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	mintCmd.Flags().StringVar(&amount, "amount", "", "Amount to mint")
	_ = mintCmd.MarkFlagRequired("amount")

	showCmd := &cobra.Command{
		Use:   "show ACCOUNT_ID",
		Short: "Show an account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client, "/api/v1/accounts/"+url.PathEscape(args[0]))(cmd, args)
		},
	}

	var limit, offset int
	postingsCmd := &cobra.Command{
		Use:   "postings ACCOUNT_ID",
		Short: "List the postings of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pagedPath("/api/v1/accounts/"+url.PathEscape(args[0])+"/postings", limit, offset, nil)
			return show(client, path)(cmd, args)
		},
	}
	postingsCmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	postingsCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	cmd.AddCommand(createCmd, mintCmd, showCmd, postingsCmd)
	return cmd
}

func assetCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Prize asset operations",
	}

	var name, owner string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a prize asset (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := client().post(cmd.Context(), "/api/v1/assets", dto.RegisterAssetRequest{Name: name, Owner: owner})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), raw)
		},
	}
	registerCmd.Flags().StringVar(&name, "name", "", "Asset name")
	registerCmd.Flags().StringVar(&owner, "owner", "", "Initial holder identity")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("owner")

	showCmd := &cobra.Command{
		Use:   "show ASSET_ID",
		Short: "Show a prize asset and its holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(client, "/api/v1/assets/"+url.PathEscape(args[0]))(cmd, args)
		},
	}

	cmd.AddCommand(registerCmd, showCmd)
	return cmd
}

func ledgerCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations (admin)",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := client().get(cmd.Context(), "/api/v1/ledger/consistency")
			if err != nil {
				var apiErr *apiError
				if errors.As(err, &apiErr) {
					fmt.Fprintln(cmd.OutOrStdout(), "Consistency check FAILED")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return nil
		},
	}

	reconciliationCmd := &cobra.Command{
		Use:   "reconciliation",
		Short: "Verify every raffle and the token ledger",
		Args:  cobra.NoArgs,
		RunE:  show(client, "/api/v1/ledger/reconciliation"),
	}

	cmd.AddCommand(consistencyCmd, reconciliationCmd)
	return cmd
}

func meCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the identity the API resolves for this caller",
		Args:  cobra.NoArgs,
		RunE:  show(client, "/api/v1/me"),
	}
}

// tokenCmd signs a bearer token locally with the server's JWT secret.
func tokenCmd() *cobra.Command {
	var (
		secret string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token IDENTITY",
		Short: "Issue a bearer token for an identity",
		Long: `Signs a token with JWT_SECRET (from the environment or .env) or --secret.
Intended for development and operators holding the server secret.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
				if ttl == 0 {
					ttl = cfg.JWTExpiration
				}
			}
			if secret == "" {
				return errors.New("no signing secret: set JWT_SECRET or pass --secret")
			}
			if ttl == 0 {
				ttl = 24 * time.Hour
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(args[0], domain.Role(role))
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleParticipant), "Role claim (admin or participant)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")

	return cmd
}
