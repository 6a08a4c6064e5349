// Package client submits sessions to a remote CCI server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/cci/internal/cci"
	"github.com/tensorplex-labs/cci/internal/config"
	"github.com/tensorplex-labs/cci/internal/server"
)

type Client struct {
	httpClient *resty.Client
	cfg        *config.ClientEnvConfig
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
}

func NewClient(cfg *config.ClientEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("client config is nil")
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to create encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to create decoder: %w", err)
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ServerURL, "/")).
		SetTimeout(cfg.ClientTimeout).
		SetRetryCount(cfg.RetryMax).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * 2).
		AddRetryCondition(retryable)

	return &Client{httpClient: cli, cfg: cfg, encoder: encoder, decoder: decoder}, nil
}

// retryable matches transport failures and gateway statuses only.
func retryable(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch r.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) Close() {
	_ = c.encoder.Close()
	c.decoder.Close()
}

// Compute sends the session zstd-compressed and returns the server's result.
func (c *Client) Compute(ctx context.Context, req server.ComputeRequest) (cci.Result, error) {
	b, err := sonic.Marshal(req)
	if err != nil {
		return cci.Result{}, fmt.Errorf("marshal compute request: %w", err)
	}

	restyResp, err := c.httpClient.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Encoding", "zstd").
		SetHeader("Accept-Encoding", "zstd").
		SetBody(c.encoder.EncodeAll(b, nil)).
		Post(server.ComputeRoute)
	if err != nil {
		log.Error().Err(err).Str("url", c.cfg.ServerURL).Msg("compute request failed")
		return cci.Result{}, err
	}

	data := restyResp.Body()
	if strings.Contains(strings.ToLower(restyResp.Header().Get("Content-Encoding")), "zstd") {
		out, err := c.decoder.DecodeAll(data, nil)
		if err != nil {
			return cci.Result{}, fmt.Errorf("zstd: failed to decompress response: %w", err)
		}
		data = out
	}

	var resp server.StdResponse[server.ComputeResponse]
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return cci.Result{}, fmt.Errorf("bad status %d: unmarshal response: %w", restyResp.StatusCode(), err)
	}
	if resp.Error != nil {
		return cci.Result{}, fmt.Errorf("server error (status %d): %s", restyResp.StatusCode(), *resp.Error)
	}
	if restyResp.StatusCode() >= 400 {
		return cci.Result{}, fmt.Errorf("bad status %d", restyResp.StatusCode())
	}

	log.Debug().Bool("cached", resp.Body.Cached).Int("time_steps", len(resp.Body.Result.Times)).Msg("received CCI result")
	return resp.Body.Result, nil
}

// Health reports whether the server answers its health route.
func (c *Client) Health(ctx context.Context) error {
	restyResp, err := c.httpClient.R().SetContext(ctx).Get(server.HealthRoute)
	if err != nil {
		return err
	}
	if restyResp.StatusCode() != http.StatusOK {
		return fmt.Errorf("bad status %d: %s", restyResp.StatusCode(), string(restyResp.Body()))
	}
	return nil
}
