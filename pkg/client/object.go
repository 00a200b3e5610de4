// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"
	"github.com/LeeDigitalWorks/zapcli/pkg/utils"
)

// PutOptions carries the optional request headers for uploads.
type PutOptions struct {
	ContentType     string
	ContentEncoding string
	CacheControl    string
	ACL             string
}

func (o *PutOptions) apply(h http.Header) {
	if o == nil {
		return
	}
	if o.ContentType != "" {
		h.Set("Content-Type", o.ContentType)
	}
	if o.ContentEncoding != "" {
		h.Set("Content-Encoding", o.ContentEncoding)
	}
	if o.CacheControl != "" {
		h.Set("Cache-Control", o.CacheControl)
	}
	if o.ACL != "" {
		h.Set("x-amz-acl", o.ACL)
	}
}

// Put stores an object and returns its etag. The service must echo an
// etag header on success; a 2xx without one is a protocol violation.
func (c *Client) Put(ctx context.Context, bucket, key string, body []byte, opts *PutOptions) (s3wire.Etag, error) {
	header := http.Header{}
	opts.apply(header)

	respHeader, _, err := c.execute(ctx, command{
		op:     "put",
		method: http.MethodPut,
		bucket: bucket,
		key:    key,
		header: header,
		body:   body,
	})
	if err != nil {
		return "", err
	}
	return etagFromHeader(respHeader)
}

// Get fetches an object, optionally a byte range of it.
func (c *Client) Get(ctx context.Context, bucket, key string, rng *ByteRange) ([]byte, error) {
	header := http.Header{}
	if v := rng.Header(); v != "" {
		header.Set("Range", v)
	}

	_, body, err := c.execute(ctx, command{
		op:     "get",
		method: http.MethodGet,
		bucket: bucket,
		key:    key,
		header: header,
	})
	return body, err
}

// Delete removes one object. Any 2xx is success regardless of body.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, _, err := c.execute(ctx, command{
		op:     "delete",
		method: http.MethodDelete,
		bucket: bucket,
		key:    key,
	})
	return err
}

// DeleteMultiResult aggregates per-object outcomes of a bulk delete.
// Entries in Errors are not a top-level failure; callers must inspect
// them to detect partial failure.
type DeleteMultiResult struct {
	Deleted []s3wire.DeletedObject
	Errors  []s3wire.DeleteError
}

// DeleteMulti removes up to 1000 objects in one request. An empty
// object list short-circuits to an empty success without touching the
// network: the service rejects zero-object delete documents.
func (c *Client) DeleteMulti(ctx context.Context, bucket string, objects []s3wire.DeleteObject, quiet bool) (*DeleteMultiResult, error) {
	if len(objects) == 0 {
		return &DeleteMultiResult{}, nil
	}

	body, err := s3wire.Encode(&s3wire.DeleteRequest{
		Quiet:   quiet,
		Objects: objects,
	})
	if err != nil {
		return nil, err
	}

	// Content-MD5 is mandatory for multi-object delete; the service
	// uses it to reject truncated bodies.
	header := http.Header{}
	header.Set("Content-MD5", base64.StdEncoding.EncodeToString(utils.Md5Sum(body)))
	header.Set("Content-Type", "application/xml")

	query := url.Values{}
	query.Set("delete", "")

	_, respBody, err := c.execute(ctx, command{
		op:     "delete_multi",
		method: http.MethodPost,
		bucket: bucket,
		query:  query,
		header: header,
		body:   body,
	})
	if err != nil {
		return nil, err
	}

	var result s3wire.DeleteResult
	if err := s3wire.Decode(respBody, &result); err != nil {
		return nil, err
	}
	return &DeleteMultiResult{
		Deleted: result.Deleted,
		Errors:  result.Errors,
	}, nil
}

// etagFromHeader pulls the mandatory etag out of a response header.
func etagFromHeader(h http.Header) (s3wire.Etag, error) {
	raw := h.Get("ETag")
	if raw == "" {
		return "", s3err.Unknown(-1, "missing etag header", "")
	}
	etag, err := s3wire.ParseEtag(raw)
	if err != nil {
		return "", s3err.Decode(err)
	}
	return etag, nil
}
