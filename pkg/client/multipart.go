// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"
)

type uploadState int

const (
	uploadActive uploadState = iota
	uploadCompleted
	uploadAborted
)

// Upload is an in-progress multipart upload session. Parts accumulate
// as UploadPart calls succeed; Complete consumes the session and Abort
// cancels it server-side. The part list is guarded by a mutex so parts
// may be uploaded from concurrent goroutines against one session.
type Upload struct {
	client   *Client
	bucket   string
	key      string
	uploadID string

	mu    sync.Mutex
	parts []s3wire.CompletePart
	state uploadState
}

// CreateMultipartUpload starts a multipart session.
func (c *Client) CreateMultipartUpload(ctx context.Context, bucket, key string, opts *PutOptions) (*Upload, error) {
	header := http.Header{}
	opts.apply(header)

	query := url.Values{}
	query.Set("uploads", "")

	_, body, err := c.execute(ctx, command{
		op:     "create_multipart",
		method: http.MethodPost,
		bucket: bucket,
		key:    key,
		query:  query,
		header: header,
	})
	if err != nil {
		return nil, err
	}

	var result s3wire.InitiateMultipartUploadResult
	if err := s3wire.Decode(body, &result); err != nil {
		return nil, err
	}

	return &Upload{
		client:   c,
		bucket:   bucket,
		key:      key,
		uploadID: result.UploadID,
	}, nil
}

// ID returns the service-assigned upload id.
func (u *Upload) ID() string {
	return u.uploadID
}

// UploadPart transmits one part and records its etag. Part numbers are
// caller-assigned; the session does not check contiguity or uniqueness
// (duplicates are resolved at Complete, last upload wins).
func (u *Upload) UploadPart(ctx context.Context, partNumber int, body []byte) error {
	if err := u.checkActive(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("partNumber", strconv.Itoa(partNumber))
	query.Set("uploadId", u.uploadID)

	respHeader, _, err := u.client.execute(ctx, command{
		op:     "upload_part",
		method: http.MethodPut,
		bucket: u.bucket,
		key:    u.key,
		query:  query,
		body:   body,
	})
	if err != nil {
		return err
	}

	etag, err := etagFromHeader(respHeader)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != uploadActive {
		return s3err.Unknown(-1, "upload session closed", "")
	}
	u.parts = append(u.parts, s3wire.CompletePart{
		PartNumber: partNumber,
		ETag:       etag.String(),
	})
	return nil
}

// Complete finalizes the upload from the accumulated parts and returns
// the assembled object's etag. The completion document lists parts in
// ascending part-number order as the service requires; when a part
// number was uploaded more than once, the latest upload wins. On
// success the session is consumed and rejects further calls.
func (u *Upload) Complete(ctx context.Context) (s3wire.Etag, error) {
	u.mu.Lock()
	if u.state != uploadActive {
		u.mu.Unlock()
		return "", s3err.Unknown(-1, "upload session closed", "")
	}
	parts := normalizeParts(u.parts)
	u.mu.Unlock()

	body, err := s3wire.Encode(&s3wire.CompleteMultipartUpload{Parts: parts})
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("uploadId", u.uploadID)

	_, respBody, err := u.client.execute(ctx, command{
		op:     "complete_multipart",
		method: http.MethodPost,
		bucket: u.bucket,
		key:    u.key,
		query:  query,
		body:   body,
	})
	if err != nil {
		return "", err
	}

	var result s3wire.CompleteMultipartUploadResult
	if err := s3wire.Decode(respBody, &result); err != nil {
		return "", err
	}
	if result.Bucket != u.bucket || result.Key != u.key {
		return "", s3err.Unknown(-1, "Bucket/key does not match", "")
	}

	etag, err := s3wire.ParseEtag(result.ETag)
	if err != nil {
		return "", s3err.Decode(err)
	}

	u.mu.Lock()
	u.state = uploadCompleted
	u.mu.Unlock()
	return etag, nil
}

// Abort cancels the upload server-side so the service releases the
// parts already stored, then invalidates the session.
func (u *Upload) Abort(ctx context.Context) error {
	if err := u.checkActive(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("uploadId", u.uploadID)

	_, _, err := u.client.execute(ctx, command{
		op:     "abort_multipart",
		method: http.MethodDelete,
		bucket: u.bucket,
		key:    u.key,
		query:  query,
	})
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.state = uploadAborted
	u.mu.Unlock()
	return nil
}

func (u *Upload) checkActive() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.state != uploadActive {
		return s3err.Unknown(-1, "upload session closed", "")
	}
	return nil
}

// normalizeParts dedupes by part number (last recorded wins) and sorts
// ascending, the order the completion document must use.
func normalizeParts(parts []s3wire.CompletePart) []s3wire.CompletePart {
	latest := make(map[int]s3wire.CompletePart, len(parts))
	for _, p := range parts {
		latest[p.PartNumber] = p
	}
	out := make([]s3wire.CompletePart, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PartNumber < out[j].PartNumber
	})
	return out
}
