// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/LeeDigitalWorks/zapcli/pkg/client"
	"github.com/LeeDigitalWorks/zapcli/pkg/logger"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"

	"github.com/spf13/cobra"
)

func init() {
	rmCmd.Flags().Bool("quiet", false, "Ask the service to omit per-object success entries")
	rootCmd.AddCommand(rmCmd)
}

var rmCmd = &cobra.Command{
	Use:   "rm <bucket> <key>...",
	Short: "Delete objects; multiple keys use one bulk-delete request",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, keys := args[0], args[1:]

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		if len(keys) == 1 {
			return client.Retry(cmd.Context(), c, retries(cmd), func(ctx context.Context, c *client.Client) error {
				return c.Delete(ctx, bucket, keys[0])
			})
		}

		objects := make([]s3wire.DeleteObject, len(keys))
		for i, key := range keys {
			objects[i] = s3wire.DeleteObject{Key: key}
		}
		quiet := NewFlagLoader(cmd).Bool("quiet")

		var result *client.DeleteMultiResult
		err = client.Retry(cmd.Context(), c, retries(cmd), func(ctx context.Context, c *client.Client) error {
			var err error
			result, err = c.DeleteMulti(ctx, bucket, objects, quiet)
			return err
		})
		if err != nil {
			return err
		}

		// The bulk request succeeds even when members fail; surface
		// per-object failures and report them through the exit code.
		for _, e := range result.Errors {
			logger.Error().
				Str("key", e.Key).
				Str("code", e.Code).
				Str("message", e.Message).
				Msg("delete failed")
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d of %d objects not deleted", len(result.Errors), len(keys))
		}
		return nil
	},
}
