// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"
)

// ListEntry is one object in a listing page. Immutable once decoded.
type ListEntry struct {
	Key          string
	Size         int64
	LastModified time.Time
	Etag         s3wire.Etag
	StorageClass s3wire.StorageClass
}

// ListPage is one page of a listing. NextToken is the opaque
// continuation cursor: empty means the listing is complete, otherwise
// pass it to the next List call with the same bucket and prefix.
// Pagination is caller-driven; the page captures no call context.
type ListPage struct {
	Entries   []ListEntry
	NextToken string
}

// More reports whether another page follows.
func (p *ListPage) More() bool {
	return p.NextToken != ""
}

// List fetches one page of the bucket listing (list-type 2). Entries
// come back in the service's order, lexicographic by key within the
// page.
func (c *Client) List(ctx context.Context, bucket, prefix, token string) (*ListPage, error) {
	query := url.Values{}
	query.Set("list-type", "2")
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if token != "" {
		query.Set("continuation-token", token)
	}

	_, body, err := c.execute(ctx, command{
		op:     "list",
		method: http.MethodGet,
		bucket: bucket,
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	var result s3wire.ListBucketResult
	if err := s3wire.Decode(body, &result); err != nil {
		return nil, err
	}

	entries := make([]ListEntry, 0, len(result.Contents))
	for _, content := range result.Contents {
		entry, err := decodeListEntry(content)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return &ListPage{
		Entries:   entries,
		NextToken: result.NextContinuationToken,
	}, nil
}

func decodeListEntry(content s3wire.ListContent) (ListEntry, error) {
	etag, err := s3wire.ParseEtag(content.ETag)
	if err != nil {
		return ListEntry{}, s3err.Decode(err)
	}
	class, err := s3wire.ParseStorageClass(content.StorageClass)
	if err != nil {
		return ListEntry{}, s3err.Decode(err)
	}
	modified, err := time.Parse(time.RFC3339, content.LastModified)
	if err != nil {
		return ListEntry{}, s3err.Decode(err)
	}
	return ListEntry{
		Key:          content.Key,
		Size:         content.Size,
		LastModified: modified,
		Etag:         etag,
		StorageClass: class,
	}, nil
}
