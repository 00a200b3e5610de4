// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"time"

	"github.com/LeeDigitalWorks/zapcli/pkg/logger"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"

	"github.com/cenkalti/backoff/v4"
)

// DefaultRetryAttempts bounds Retry when the caller passes 0.
const DefaultRetryAttempts = 5

// Retry runs fn, following region redirects and backing off on
// throttles. fn receives the client to use for the attempt; after a
// redirect it is a region-switched derivative of c. All other error
// kinds return immediately. This is the orchestration layer the engine
// itself deliberately lacks.
func Retry(ctx context.Context, c *Client, attempts int, fn func(ctx context.Context, c *Client) error) error {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.Reset()

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx, c)
		if err == nil {
			return nil
		}

		var se *s3err.Error
		if !errors.As(err, &se) {
			return err
		}

		switch se.Kind {
		case s3err.KindRedirect:
			logger.Ctx(ctx).Debug().
				Str("from", c.Region()).
				Str("to", se.Region).
				Msg("following region redirect")
			c = c.WithRegion(se.Region)
			bo.Reset()

		case s3err.KindThrottled:
			wait := bo.NextBackOff()
			if wait == backoff.Stop {
				return err
			}
			logger.Ctx(ctx).Debug().
				Dur("wait", wait).
				Msg("throttled, backing off")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}

		default:
			return err
		}
	}
	return err
}
