// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryFollowsRedirect(t *testing.T) {
	t.Parallel()

	redirectBody := `<?xml version="1.0"?>
<Error><Code>PermanentRedirect</Code><Message>use the right endpoint</Message>
<Endpoint>photos.s3.eu-west-1.amazonaws.com</Endpoint>
<RequestId>r</RequestId><HostId>h</HostId></Error>`

	transport := &fakeTransport{
		handler: func(req *http.Request, _ []byte) *http.Response {
			if req.URL.Host == "s3.eu-west-1.amazonaws.com" {
				return response(204, nil, "")
			}
			return response(301, nil, redirectBody)
		},
	}
	c := testClient(transport)

	var regions []string
	err := Retry(context.Background(), c, 3, func(ctx context.Context, c *Client) error {
		regions = append(regions, c.Region())
		return c.Delete(ctx, "photos", "a.jpg")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, regions)
	assert.Len(t, transport.calls, 2)
}

func TestRetryBacksOffOnThrottle(t *testing.T) {
	t.Parallel()

	attempt := 0
	transport := &fakeTransport{
		handler: func(req *http.Request, _ []byte) *http.Response {
			attempt++
			if attempt < 3 {
				return response(503, nil, "")
			}
			return response(204, nil, "")
		},
	}
	c := testClient(transport)

	err := Retry(context.Background(), c, 5, func(ctx context.Context, c *Client) error {
		return c.Delete(ctx, "photos", "a.jpg")
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempt)
}

func TestRetryStopsOnTerminalError(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{response: response(404, nil, "")}
	c := testClient(transport)

	err := Retry(context.Background(), c, 5, func(ctx context.Context, c *Client) error {
		return c.Delete(ctx, "photos", "a.jpg")
	})
	assert.True(t, errors.Is(err, s3err.ErrNotFound))
	assert.Len(t, transport.calls, 1)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{response: response(503, nil, "")}
	c := testClient(transport)

	err := Retry(context.Background(), c, 2, func(ctx context.Context, c *Client) error {
		return c.Delete(ctx, "photos", "a.jpg")
	})
	assert.True(t, errors.Is(err, s3err.ErrThrottled))
	assert.Len(t, transport.calls, 2)
}

func TestWithRegionDerivesEndpoint(t *testing.T) {
	t.Parallel()

	c := New(Config{Region: "us-east-1"})
	assert.Equal(t, "https://s3.amazonaws.com", c.baseURL())

	derived := c.WithRegion("ap-south-1")
	assert.Equal(t, "https://s3.ap-south-1.amazonaws.com", derived.baseURL())
	assert.Equal(t, "us-east-1", c.Region(), "original client unchanged")

	override := New(Config{Region: "us-east-1", Endpoint: "http://localhost:9000/"})
	assert.Equal(t, "http://localhost:9000", override.baseURL())
	assert.Equal(t, "http://localhost:9000", override.WithRegion("eu-west-1").baseURL(),
		"explicit endpoint wins over region derivation")
}
