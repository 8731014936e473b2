package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vaultactions/cmd/app/commands"
)

func getAdminCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-account",
			Usage: "Create a new API account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable account name",
				},
				&cli.StringFlag{
					Name:     "address",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "On-chain address the account acts as (0x...)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateAccount(
					ctx,
					cmd.String("name"),
					cmd.String("address"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-vault",
			Usage: "Create a new vault owned by an address",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable vault name",
				},
				&cli.StringFlag{
					Name:     "fee-collector",
					Required: true,
					Usage:    "Address that collects relayer gas reimbursements (0x...)",
				},
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owner address granted full capabilities (0x...)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateVault(
					ctx,
					cmd.String("name"),
					cmd.String("fee-collector"),
					cmd.String("owner"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-amm",
			Usage: "Register an AMM used to trade into bridgeable tokens",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "address",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "AMM contract address (0x...)",
				},
				&cli.StringFlag{
					Name:     "canonical-token",
					Required: true,
					Usage:    "Canonical token the AMM trades (0x...)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateAmm(
					ctx,
					cmd.String("address"),
					cmd.String("canonical-token"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-action",
			Usage: "Create a guarded action on a vault",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "vault-id",
					Required: true,
					Usage:    "Vault ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Action kind: 'bridger' or 'withdrawer'",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable action name",
				},
				&cli.StringFlag{
					Name:     "owner",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owner address granted full capabilities (0x...)",
				},
				&cli.StringSliceFlag{
					Name:  "manager",
					Usage: "Address granted the call capability (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "relayer",
					Usage: "Whitelisted relayer address (repeatable)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateAction(
					ctx,
					cmd.String("vault-id"),
					cmd.String("kind"),
					cmd.String("name"),
					cmd.String("owner"),
					cmd.StringSlice("manager"),
					cmd.StringSlice("relayer"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "deposit",
			Usage: "Credit a vault's balance for a token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "vault-id",
					Required: true,
					Usage:    "Vault ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token address (0x...)",
				},
				&cli.StringFlag{
					Name:     "amount",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Amount in base token units (integer string)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunDeposit(
					ctx,
					cmd.String("vault-id"),
					cmd.String("token"),
					cmd.String("amount"),
				)
			},
		},
		{
			Name:  "authorize",
			Usage: "Grant a capability on an entity to an address",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "entity-id",
					Required: true,
					Usage:    "Vault or action ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "grantee",
					Aliases:  []string{"g"},
					Required: true,
					Usage:    "Address receiving the capability (0x...)",
				},
				&cli.StringFlag{
					Name:     "capability",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Capability name (e.g. call, authorize, set_threshold)",
				},
				&cli.StringFlag{
					Name:     "actor",
					Required: true,
					Usage:    "Address performing the grant; must hold authorize (0x...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunAuthorize(
					ctx,
					cmd.String("entity-id"),
					cmd.String("grantee"),
					cmd.String("capability"),
					cmd.String("actor"),
				)
			},
		},
	}
}
