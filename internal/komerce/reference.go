package komerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Geography endpoints. Each returns the full child list for one parent
// region; provinces take no parent.

func (c *Client) Provinces(ctx context.Context) ([]Region, error) {
	return c.destinations(ctx, "/destination/province")
}

func (c *Client) Cities(ctx context.Context, provinceID string) ([]Region, error) {
	return c.destinations(ctx, "/destination/city/"+provinceID)
}

func (c *Client) Districts(ctx context.Context, cityID string) ([]Region, error) {
	return c.destinations(ctx, "/destination/district/"+cityID)
}

func (c *Client) Subdistricts(ctx context.Context, districtID string) ([]Region, error) {
	return c.destinations(ctx, "/destination/sub-district/"+districtID)
}

func (c *Client) destinations(ctx context.Context, path string) ([]Region, error) {
	respBody, ordinal, err := c.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var payload providerRegionResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decode destination response: %w", err)
	}
	if payload.Meta.Status != "success" {
		return nil, fmt.Errorf("provider error: %s (code %d)", payload.Meta.Message, payload.Meta.Code)
	}

	regions := make([]Region, 0, len(payload.Data))
	for _, row := range payload.Data {
		regions = append(regions, row.normalize())
	}

	c.logger.Debug("destinations fetched",
		zap.String("path", path),
		zap.Int("regions", len(regions)),
		zap.Int("credential_ordinal", ordinal),
	)

	return regions, nil
}
