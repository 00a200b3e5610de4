// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/LeeDigitalWorks/zapcli/pkg/logger"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/signer"
	"github.com/LeeDigitalWorks/zapcli/pkg/utils"

	"github.com/google/uuid"
)

// command is a prepared request description. Object operations and the
// multipart session build these; execute turns one into exactly one
// network round trip.
type command struct {
	op     string
	method string
	bucket string
	key    string
	query  url.Values
	header http.Header
	body   []byte
}

// execute invokes the transport once, classifies the status, and hands
// back headers and raw body for the caller to decode. No retries, no
// redirect following; those are the caller's job.
func (c *Client) execute(ctx context.Context, cmd command) (http.Header, []byte, error) {
	done := c.metrics.Begin(cmd.op)

	header, body, err := c.roundTrip(ctx, cmd)
	done(outcomeLabel(err))
	return header, body, err
}

func (c *Client) roundTrip(ctx context.Context, cmd command) (http.Header, []byte, error) {
	target := c.baseURL() + "/" + escapePath(cmd.bucket, cmd.key)
	if len(cmd.query) > 0 {
		target += "?" + cmd.query.Encode()
	}

	var reader io.Reader
	if len(cmd.body) > 0 {
		reader = bytes.NewReader(cmd.body)
	}

	req, err := http.NewRequestWithContext(ctx, cmd.method, target, reader)
	if err != nil {
		return nil, nil, s3err.Transport(err)
	}
	for name, vals := range cmd.header {
		for _, v := range vals {
			req.Header.Add(name, v)
		}
	}

	if c.signer != nil {
		payloadHash := signer.HashedEmptyPayload
		if len(cmd.body) > 0 {
			payloadHash = hex.EncodeToString(utils.Sha256Sum(cmd.body))
		}
		if err := c.signer.Sign(ctx, req, payloadHash, c.cfg.Region); err != nil {
			return nil, nil, s3err.Transport(err)
		}
	}

	reqID := uuid.NewString()
	logger.Ctx(ctx).Debug().
		Str("req_id", reqID).
		Str("op", cmd.op).
		Str("method", cmd.method).
		Str("bucket", cmd.bucket).
		Str("key", cmd.key).
		Str("region", c.cfg.Region).
		Msg("executing command")

	resp, err := c.transport.Do(req)
	if err != nil {
		return nil, nil, s3err.Transport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, s3err.Transport(err)
	}

	logger.Ctx(ctx).Debug().
		Str("req_id", reqID).
		Int("status", resp.StatusCode).
		Int("bytes", len(respBody)).
		Msg("command response")

	if err := Classify(resp.StatusCode, respBody); err != nil {
		return nil, nil, err
	}
	return resp.Header, respBody, nil
}

// escapePath builds the path-style "{bucket}" or "{bucket}/{key}" path,
// escaping key segments but keeping slashes as separators.
func escapePath(bucket, key string) string {
	if key == "" {
		return url.PathEscape(bucket)
	}
	segments := strings.Split(key, "/")
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(escaped, "/")
}

func outcomeLabel(err error) string {
	switch s3err.KindOf(err) {
	case 0:
		if err != nil {
			return "error"
		}
		return "ok"
	case s3err.KindRedirect:
		return "redirect"
	case s3err.KindThrottled:
		return "throttled"
	case s3err.KindNotFound:
		return "not_found"
	case s3err.KindTransport:
		return "transport"
	case s3err.KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}
