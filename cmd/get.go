// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"

	"github.com/LeeDigitalWorks/zapcli/pkg/client"

	"github.com/spf13/cobra"
)

func init() {
	getCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	getCmd.Flags().Int64("first", 0, "Range start offset (inclusive)")
	getCmd.Flags().Int64("last", 0, "Range end offset (inclusive); negative alone means last N bytes")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <bucket> <key>",
	Short: "Fetch an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key := args[0], args[1]

		var rng client.ByteRange
		if cmd.Flags().Changed("first") {
			v, _ := cmd.Flags().GetInt64("first")
			rng.First = &v
		}
		if cmd.Flags().Changed("last") {
			v, _ := cmd.Flags().GetInt64("last")
			rng.Last = &v
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		var body []byte
		err = client.Retry(cmd.Context(), c, retries(cmd), func(ctx context.Context, c *client.Client) error {
			var err error
			body, err = c.Get(ctx, bucket, key, &rng)
			return err
		})
		if err != nil {
			return err
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			return os.WriteFile(output, body, 0o644)
		}
		_, err = os.Stdout.Write(body)
		return err
	},
}
