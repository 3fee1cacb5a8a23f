package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/radieske/trivia-roulette-platform/internal/game/domain"
	walletdto "github.com/radieske/trivia-roulette-platform/internal/wallet-service/dto"
)

// Client fala com o wallet-service
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Balance lê (ou cria) a carteira; o wallet-service aplica o piso diário nessa leitura
func (c *Client) Balance(ctx context.Context, userID string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wallet?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return 0, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, httpError("wallet get", res)
	}
	var out walletdto.WalletResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// ApplySettlement envia o registro; status DUPLICATE vira ErrDuplicateSettlement
func (c *Client) ApplySettlement(ctx context.Context, rec domain.SettlementRecord) error {
	body, err := json.Marshal(walletdto.SettleRequest{SettlementRecord: rec})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/wallet/settle", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %v", domain.ErrInsufficientBalance, httpError("wallet settle", res))
	case res.StatusCode >= 300:
		return httpError("wallet settle", res)
	}

	var out walletdto.SettleResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return err
	}
	if out.Status == walletdto.SettleDuplicate {
		return domain.ErrDuplicateSettlement
	}
	return nil
}

func httpError(op string, res *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("%s http %d: %s", op, res.StatusCode, strings.TrimSpace(string(msg)))
}
