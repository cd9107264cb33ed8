package komerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// CalculateDomesticCost fetches courier service quotes for one
// origin/destination/weight/courier combination. Weight is in grams; the
// caller is expected to pass the billable weight, not the raw parcel weight.
func (c *Client) CalculateDomesticCost(ctx context.Context, origin, destination string, weightGrams int, courier string) ([]CostResult, error) {
	start := time.Now()

	form := url.Values{}
	form.Set("origin", origin)
	form.Set("destination", destination)
	form.Set("weight", strconv.Itoa(weightGrams))
	form.Set("courier", courier)
	form.Set("price", "lowest")

	respBody, ordinal, err := c.Do(ctx, http.MethodPost, "/calculate/domestic-cost", []byte(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		c.logger.Error("domestic cost request failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Int("weight_grams", weightGrams),
			zap.String("courier", courier),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	var payload providerCostResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("decode cost response: %w", err)
	}
	if payload.Meta.Status != "success" {
		return nil, fmt.Errorf("provider error: %s (code %d)", payload.Meta.Message, payload.Meta.Code)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("provider returned no services for courier %q", courier)
	}

	c.logger.Info("domestic cost fetched",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Int("weight_grams", weightGrams),
		zap.String("courier", courier),
		zap.Int("services", len(payload.Data)),
		zap.Int("credential_ordinal", ordinal),
		zap.Duration("duration", time.Since(start)),
	)

	return payload.Data, nil
}
