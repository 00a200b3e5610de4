// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/LeeDigitalWorks/zapcli/pkg/client"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	lsCmd.Flags().String("prefix", "", "Only list keys starting with this prefix")
	lsCmd.Flags().Bool("all", false, "Fetch every page, not just the first")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls <bucket>",
	Short: "List objects in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket := args[0]
		flags := NewFlagLoader(cmd)
		prefix := flags.String("prefix")
		all := flags.Bool("all")

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		token := ""
		for {
			var page *client.ListPage
			err := client.Retry(cmd.Context(), c, retries(cmd), func(ctx context.Context, c *client.Client) error {
				var err error
				page, err = c.List(ctx, bucket, prefix, token)
				return err
			})
			if err != nil {
				return err
			}

			for _, entry := range page.Entries {
				fmt.Printf("%s  %10s  %-11s  %s\n",
					entry.LastModified.Format("2006-01-02 15:04:05"),
					humanize.Bytes(uint64(entry.Size)),
					entry.StorageClass,
					entry.Key,
				)
			}

			if !all || !page.More() {
				break
			}
			token = page.NextToken
		}
		return nil
	},
}
