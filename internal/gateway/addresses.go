package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// ListAddresses returns the user's saved addresses. The backend may wrap the
// list in a pagination envelope depending on its settings, so both shapes
// are accepted.
func (c *Client) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/addresses/", nil, &raw); err != nil {
		return nil, err
	}

	var addresses []domain.Address
	if err := json.Unmarshal(raw, &addresses); err == nil {
		return addresses, nil
	}

	var envelope struct {
		Results []domain.Address `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal addresses: %w", err)
	}
	return envelope.Results, nil
}

// CreateAddress persists a draft address server-side and returns it with
// its assigned id.
func (c *Client) CreateAddress(ctx context.Context, draft domain.Address) (domain.Address, error) {
	var created domain.Address
	if err := c.do(ctx, http.MethodPost, "/addresses/", draft, &created); err != nil {
		return domain.Address{}, err
	}
	return created, nil
}
