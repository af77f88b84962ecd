package broker

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Account struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.call(ctx, usersService, "GetAccounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (c *Client) OpenSandboxAccount(ctx context.Context) (string, error) {
	if !c.cfg.Sandbox {
		return "", errors.New("open sandbox account: client is not in sandbox mode")
	}
	var resp struct {
		AccountID string `json:"accountId"`
	}
	if err := c.do(ctx, sandboxService, "OpenSandboxAccount", nil, &resp); err != nil {
		return "", err
	}
	return resp.AccountID, nil
}

// ResolveAccount: заданный id как есть, иначе первый счёт,
// иначе в песочнице открываем новый.
func (c *Client) ResolveAccount(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	accounts, err := c.Accounts(ctx)
	if err != nil {
		return "", errors.Wrap(err, "resolve account")
	}
	if len(accounts) > 0 {
		return accounts[0].ID, nil
	}
	if !c.cfg.Sandbox {
		return "", errors.New("resolve account: no accounts available")
	}

	id, err := c.OpenSandboxAccount(ctx)
	if err != nil {
		return "", errors.Wrap(err, "resolve account")
	}
	c.log.Info("opened sandbox account", zap.String("account", id))
	return id, nil
}

// SandboxPayIn пополняет счёт песочницы. Отрицательные суммы игнорируются.
func (c *Client) SandboxPayIn(ctx context.Context, accountID string, amount decimal.Decimal, currency string) (float64, error) {
	if !c.cfg.Sandbox {
		return 0, errors.New("sandbox pay-in: client is not in sandbox mode")
	}
	if amount.IsNegative() {
		c.log.Warn("sandbox pay-in: negative amount ignored", zap.String("amount", amount.String()))
		return 0, nil
	}

	req := struct {
		AccountID string     `json:"accountId"`
		Amount    moneyValue `json:"amount"`
	}{AccountID: accountID, Amount: newMoneyValue(amount, currency)}

	var resp struct {
		Balance moneyValue `json:"balance"`
	}
	if err := c.do(ctx, sandboxService, "SandboxPayIn", req, &resp); err != nil {
		return 0, err
	}
	return resp.Balance.Float(), nil
}
