package gateway

import (
	"context"
	"net/http"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
)

// Profile fetches the current user's profile, used at checkout for the
// payment widget's contact prefill. Deduplicated per token.
func (c *Client) Profile(ctx context.Context) (domain.Profile, error) {
	key := "profile|" + tokenFromContext(ctx)

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		var profile domain.Profile
		if err := c.do(ctx, http.MethodGet, "/user/profile/", nil, &profile); err != nil {
			return nil, err
		}
		return profile, nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return v.(domain.Profile), nil
}
