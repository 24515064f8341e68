package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/onclick-backend/internal/app"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/internal/service"
)

type command struct {
	name  string
	short string
	data  interface{}
}

var commands = []command{
	{"click", "Send one click", &clickCommand{}},
	{"clicks", "Show the clicks of the current session", &clicksCommand{}},
	{"generate", "Generate a claim for the current session", &generateCommand{}},
	{"send", "Redeem a stored or explicit claim on-chain", &sendCommand{}},
	{"load", "Import a packed claim", &loadCommand{}},
	{"export", "Print the packed text of a stored claim", &exportCommand{}},
	{"remove", "Remove a stored claim", &removeCommand{}},
	{"list", "List stored claims", &listCommand{}},
	{"reconcile", "Drop stored claims already redeemed on-chain", &reconcileCommand{}},
	{"network", "Show or select the network", &networkCommand{}},
	{"binding", "Resolve the provider binding of a network", &bindingCommand{}},
	{"balance", "Show the token balance of an address", &balanceCommand{}},
	{"grant-signer", "Authorize a claim signer (contract owner only)", &grantSignerCommand{}},
	{"redemptions", "Query the redemption journal", &redemptionsCommand{}},
}

// dispatch prints the outcome of cmd and fails on error outcomes.
func dispatch(cmd service.Command) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		return printOutcome(a.Engine.Dispatch(ctx, cmd))
	})
}

func printOutcome(o service.Outcome) error {
	if err := printJSON(o); err != nil {
		return err
	}
	if o.Kind == service.OutcomeError {
		return o.Err
	}
	return nil
}

type clickCommand struct{}

func (c *clickCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		resp, err := a.Engine.Click(ctx)
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

type clicksCommand struct{}

func (c *clicksCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		resp, err := a.Engine.Clicks(ctx)
		if err != nil {
			return err
		}
		return printJSON(resp)
	})
}

type generateCommand struct {
	Recipient string `long:"recipient" description:"Address receiving the tokens; defaults to the only wallet account"`
}

func (c *generateCommand) Execute([]string) error {
	return dispatch(service.Command{Kind: service.CommandGenerateClaim, Recipient: c.Recipient})
}

type sendCommand struct {
	Network   uint64 `long:"network" description:"Network to redeem on; defaults to the selected one"`
	Recipient string `long:"recipient" required:"true" description:"Address receiving the tokens"`
	Clicks    uint64 `long:"clicks" description:"Click count; defaults to the stored claim"`
	Signature string `long:"signature" description:"Claim signature; defaults to the stored claim"`
	Args      struct {
		Token string `positional-arg-name:"token"`
	} `positional-args:"yes" required:"yes"`
}

func (c *sendCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		cmd := service.Command{
			Kind:      service.CommandSendClaim,
			Network:   model.NetworkID(c.Network),
			Recipient: c.Recipient,
			Token:     c.Args.Token,
			Clicks:    c.Clicks,
			Signature: c.Signature,
		}
		cmd, err := a.Engine.ResolveSend(ctx, cmd)
		if err != nil {
			return err
		}
		return printOutcome(a.Engine.Dispatch(ctx, cmd))
	})
}

type loadCommand struct {
	Args struct {
		Packed string `positional-arg-name:"packed"`
	} `positional-args:"yes" required:"yes"`
}

func (c *loadCommand) Execute([]string) error {
	return dispatch(service.Command{Kind: service.CommandLoadClaim, Packed: c.Args.Packed})
}

type removeCommand struct {
	Args struct {
		Token string `positional-arg-name:"token"`
	} `positional-args:"yes" required:"yes"`
}

func (c *removeCommand) Execute([]string) error {
	return dispatch(service.Command{Kind: service.CommandRemoveClaim, Token: c.Args.Token})
}

type exportCommand struct {
	Args struct {
		Token string `positional-arg-name:"token"`
	} `positional-args:"yes" required:"yes"`
}

func (c *exportCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		packed, err := a.Engine.ExportClaim(ctx, c.Args.Token)
		if err != nil {
			return err
		}
		fmt.Println(packed)
		return nil
	})
}

type listCommand struct{}

func (c *listCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		claims, err := a.Engine.Claims(ctx)
		if err != nil {
			return err
		}
		return printJSON(claims)
	})
}

type reconcileCommand struct{}

func (c *reconcileCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		res, err := a.Engine.Reconcile(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)
	})
}

type networkCommand struct {
	Args struct {
		Network uint64 `positional-arg-name:"network"`
	} `positional-args:"yes"`
}

func (c *networkCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		if c.Args.Network != 0 {
			if err := a.Engine.SelectNetwork(ctx, model.NetworkID(c.Args.Network)); err != nil {
				return err
			}
		}
		selected, err := a.Engine.Network(ctx)
		if err != nil {
			return err
		}
		for _, n := range a.Engine.Networks() {
			marker := " "
			if n.ID == selected {
				marker = "*"
			}
			fmt.Printf("%s %d\t%s\t%s\n", marker, n.ID, n.Name, n.Contract.Hex())
		}
		return nil
	})
}

type bindingCommand struct {
	Args struct {
		Network uint64 `positional-arg-name:"network"`
	} `positional-args:"yes"`
}

func (c *bindingCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		id := model.NetworkID(c.Args.Network)
		if id == 0 {
			selected, err := a.Engine.Network(ctx)
			if err != nil {
				return err
			}
			id = selected
		}
		info, err := a.Engine.Binding(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(info)
	})
}

type balanceCommand struct {
	Network uint64 `long:"network" description:"Network to query; defaults to the selected one"`
	Args    struct {
		Address string `positional-arg-name:"address"`
	} `positional-args:"yes" required:"yes"`
}

func (c *balanceCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		balance, err := a.Engine.Balance(ctx, model.NetworkID(c.Network), c.Args.Address)
		if err != nil {
			return err
		}
		fmt.Println(balance)
		return nil
	})
}

type grantSignerCommand struct {
	Args struct {
		Signer    string `positional-arg-name:"signer"`
		Allowance string `positional-arg-name:"allowance"`
	} `positional-args:"yes" required:"yes"`
}

func (c *grantSignerCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		txHash, err := a.Engine.GrantSigner(ctx, c.Args.Signer, c.Args.Allowance)
		if err != nil {
			return err
		}
		fmt.Println(txHash)
		return nil
	})
}

type redemptionsCommand struct {
	Recipient string `long:"recipient" description:"Only redemptions to this address"`
	Token     string `long:"token" description:"Only redemptions of this claim token"`
	Limit     uint64 `long:"limit" default:"100" description:"Maximum rows"`
}

func (c *redemptionsCommand) Execute([]string) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		if a.Journal == nil {
			return errors.New("redemption journal is not configured, set --journal-dsn")
		}
		out, err := a.Journal.Redemptions(ctx, model.RedemptionFilter{
			Recipient: c.Recipient,
			Token:     c.Token,
			Limit:     c.Limit,
		})
		if err != nil {
			return err
		}
		return printJSON(out)
	})
}
