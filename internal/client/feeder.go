package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/model"
)

const (
	estimateFeePath = "/feeder_gateway/estimate_fee"
)

// FeederGatewayClient client for the sequencer feeder gateway
type FeederGatewayClient struct {
	baseURL string
	client  *http.Client
}

// NewFeederGatewayClient creates a new feeder gateway client
func NewFeederGatewayClient(baseURL string) *FeederGatewayClient {
	return &FeederGatewayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// feederFeeResponse response from the feeder gateway. Older gateways only
// return amount, newer ones overall_fee with a gas breakdown.
type feederFeeResponse struct {
	OverallFee json.Number `json:"overall_fee"`
	Amount     json.Number `json:"amount"`
	GasUsage   json.Number `json:"gas_usage"`
	GasPrice   json.Number `json:"gas_price"`
	Unit       string      `json:"unit"`
}

// EstimateFee posts a signed v0 envelope and returns the normalized estimate
func (c *FeederGatewayClient) EstimateFee(ctx context.Context, req model.FeederFeeRequest) (*model.FeeEstimate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fee request: %w", err)
	}

	url := fmt.Sprintf("%s%s?blockNumber=pending", c.baseURL, estimateFeePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create fee request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, model.NewError(model.KindNetwork, "failed to estimate fee", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, model.NewError(model.KindNetwork,
			fmt.Sprintf("failed to estimate fee: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), nil)
	}

	var feeResp feederFeeResponse
	if err := json.NewDecoder(resp.Body).Decode(&feeResp); err != nil {
		return nil, model.NewError(model.KindNetwork, "failed to decode fee", err)
	}

	overall := feeResp.OverallFee
	if overall == "" {
		overall = feeResp.Amount
	}
	overallFee, ok := parseNumber(overall)
	if !ok {
		return nil, model.NewError(model.KindNetwork, "fee response has no overall_fee or amount", nil)
	}

	estimate := &model.FeeEstimate{OverallFee: overallFee}
	if gas, ok := parseNumber(feeResp.GasUsage); ok {
		estimate.GasConsumed = gas
	}
	if price, ok := parseNumber(feeResp.GasPrice); ok {
		estimate.GasPrice = price
	}
	return estimate, nil
}

func parseNumber(n json.Number) (*big.Int, bool) {
	if n == "" {
		return nil, false
	}
	return new(big.Int).SetString(n.String(), 10)
}
