package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	Material    string  `json:"material,omitempty"`
	Price       float64 `json:"price,string"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	IsFeatured  bool   `json:"is_featured"`
	ImageURL    string `json:"image,omitempty"`
}

// ListCategories fetches the active categories, optionally just the featured
// ones. Concurrent identical requests collapse into one backend call.
func (c *Client) ListCategories(ctx context.Context, featured bool) ([]Category, error) {
	path := "/categories/"
	if featured {
		path += "?featured=1"
	}

	v, err, _ := c.sfg.Do("categories"+path, func() (interface{}, error) {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
			return nil, err
		}

		var categories []Category
		if err := json.Unmarshal(raw, &categories); err == nil {
			return categories, nil
		}

		var envelope struct {
			Results []Category `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshal categories: %w", err)
		}
		return envelope.Results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Category), nil
}

// ListProducts fetches the catalog, optionally filtered by category slug or
// search term. Concurrent identical requests collapse into one backend call.
func (c *Client) ListProducts(ctx context.Context, category, search string) ([]Product, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}
	path := "/products/"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	v, err, _ := c.sfg.Do("products"+path, func() (interface{}, error) {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
			return nil, err
		}

		var products []Product
		if err := json.Unmarshal(raw, &products); err == nil {
			return products, nil
		}

		var envelope struct {
			Results []Product `json:"results"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		return envelope.Results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

// GetProduct fetches a single product by slug.
func (c *Client) GetProduct(ctx context.Context, slug string) (Product, error) {
	path := "/products/" + url.PathEscape(slug) + "/"

	v, err, _ := c.sfg.Do("product"+path, func() (interface{}, error) {
		var product Product
		if err := c.do(ctx, http.MethodGet, path, nil, &product); err != nil {
			return nil, err
		}
		return product, nil
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}
