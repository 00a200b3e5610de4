// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package client implements the command engine for an S3-compatible
// object store: it turns logical storage operations into signed HTTP
// requests, classifies responses into a closed set of error kinds, and
// drives the multi-request protocols (paginated listing, multipart
// upload, bulk delete).
//
// The engine itself never retries and never logs failures; every
// outcome is returned as a value. Retry, backoff and region following
// sit above it (see Retry).
package client

import (
	"fmt"
	"strings"

	"github.com/LeeDigitalWorks/zapcli/pkg/metrics"
	"github.com/LeeDigitalWorks/zapcli/pkg/signer"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// Config holds configuration for connecting to an S3-compatible service.
type Config struct {
	// Region selects the service endpoint. Empty means us-east-1.
	Region string

	// Endpoint overrides the derived AWS endpoint, for S3-compatible
	// services ("https://minio.internal:9000"). When set, Region is
	// still used for signing.
	Endpoint string

	// Credentials signs outgoing requests. Nil means anonymous
	// (unsigned) requests.
	Credentials aws.CredentialsProvider

	// Transport handles the actual HTTP exchange. Nil gets a pooled
	// default from NewTransport.
	Transport Doer

	// Metrics records per-command counters. Nil records nothing.
	Metrics *metrics.Metrics
}

// Client executes storage commands against a single region. Clients are
// cheap values; WithRegion derives one for another region sharing the
// same transport and credentials.
type Client struct {
	cfg       Config
	transport Doer
	signer    *signer.V4Signer
	metrics   *metrics.Metrics
}

// New creates a client from cfg.
func New(cfg Config) *Client {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewTransport(0, 0)
	}

	var sig *signer.V4Signer
	if cfg.Credentials != nil {
		sig = signer.NewV4Signer(cfg.Credentials)
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		signer:    sig,
		metrics:   cfg.Metrics,
	}
}

// Region returns the region this client addresses.
func (c *Client) Region() string {
	return c.cfg.Region
}

// WithRegion derives a client for another region, sharing transport,
// credentials and metrics. Used by callers following region redirects.
func (c *Client) WithRegion(region string) *Client {
	if region == "" || region == c.cfg.Region {
		return c
	}
	clone := *c
	clone.cfg.Region = region
	return &clone
}

// baseURL resolves the service root for this client's region.
func (c *Client) baseURL() string {
	if c.cfg.Endpoint != "" {
		return strings.TrimSuffix(c.cfg.Endpoint, "/")
	}
	if c.cfg.Region == "us-east-1" {
		return "https://s3.amazonaws.com"
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", c.cfg.Region)
}
