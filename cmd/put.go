// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"

	"github.com/LeeDigitalWorks/zapcli/pkg/client"
	"github.com/LeeDigitalWorks/zapcli/pkg/logger"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"

	"github.com/spf13/cobra"
)

func init() {
	putCmd.Flags().String("content_type", "", "Content-Type header")
	putCmd.Flags().String("content_encoding", "", "Content-Encoding header")
	putCmd.Flags().String("cache_control", "", "Cache-Control header")
	putCmd.Flags().String("acl", "", "Canned ACL (e.g. public-read)")
	putCmd.Flags().Int64("part_size", 16<<20, "Multipart part size; files larger than this upload in parts")
	rootCmd.AddCommand(putCmd)
}

var putCmd = &cobra.Command{
	Use:   "put <bucket> <key> <file>",
	Short: "Upload a file, using multipart upload for large files",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, key, path := args[0], args[1], args[2]
		flags := NewFlagLoader(cmd)

		opts := &client.PutOptions{
			ContentType:     flags.String("content_type"),
			ContentEncoding: flags.String("content_encoding"),
			CacheControl:    flags.String("cache_control"),
			ACL:             flags.String("acl"),
		}
		partSize := flags.Int64("part_size")

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		var etag s3wire.Etag
		if int64(len(data)) > partSize {
			etag, err = putMultipart(cmd.Context(), c, retries(cmd), bucket, key, data, partSize, opts)
		} else {
			err = client.Retry(cmd.Context(), c, retries(cmd), func(ctx context.Context, c *client.Client) error {
				var err error
				etag, err = c.Put(ctx, bucket, key, data, opts)
				return err
			})
		}
		if err != nil {
			return err
		}

		logger.Info().Str("bucket", bucket).Str("key", key).Str("etag", etag.String()).Msg("uploaded")
		return nil
	},
}

// putMultipart uploads data in partSize chunks through one multipart
// session. Part uploads retry individually; the session is aborted on
// any terminal failure so the service releases stored parts.
func putMultipart(ctx context.Context, c *client.Client, attempts int, bucket, key string, data []byte, partSize int64, opts *client.PutOptions) (s3wire.Etag, error) {
	upload, err := c.CreateMultipartUpload(ctx, bucket, key, opts)
	if err != nil {
		return "", err
	}

	partNumber := 1
	for off := int64(0); off < int64(len(data)); off += partSize {
		end := off + partSize
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		chunk := data[off:end]

		err := client.Retry(ctx, c, attempts, func(ctx context.Context, _ *client.Client) error {
			return upload.UploadPart(ctx, partNumber, chunk)
		})
		if err != nil {
			if abortErr := upload.Abort(ctx); abortErr != nil {
				logger.Warn().Err(abortErr).Str("upload_id", upload.ID()).Msg("abort failed")
			}
			return "", err
		}
		partNumber++
	}

	etag, err := upload.Complete(ctx)
	if err != nil {
		if abortErr := upload.Abort(ctx); abortErr != nil {
			logger.Warn().Err(abortErr).Str("upload_id", upload.ID()).Msg("abort failed")
		}
		return "", err
	}
	return etag, nil
}
