// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initiateDoc = `<?xml version="1.0"?>
<InitiateMultipartUploadResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Bucket>photos</Bucket>
  <Key>big.bin</Key>
  <UploadId>upload-1</UploadId>
</InitiateMultipartUploadResult>`

func completeDoc(bucket, key string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<CompleteMultipartUploadResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Location>https://%s.s3.amazonaws.com/%s</Location>
  <Bucket>%s</Bucket>
  <Key>%s</Key>
  <ETag>"d41d8cd98f00b204e9800998ecf8427e-2"</ETag>
</CompleteMultipartUploadResult>`, bucket, key, bucket, key)
}

// multipartTransport replays the initiate/part/complete protocol.
func multipartTransport(completeBody string) *fakeTransport {
	partEtags := map[string]string{
		"1": `"aa00"`,
		"2": `"bb11"`,
		"3": `"cc22"`,
	}
	return &fakeTransport{
		handler: func(req *http.Request, _ []byte) *http.Response {
			q := req.URL.Query()
			switch {
			case req.Method == http.MethodPost && q.Has("uploads"):
				return response(200, nil, initiateDoc)
			case req.Method == http.MethodPut && q.Has("partNumber"):
				etag := partEtags[q.Get("partNumber")]
				return response(200, http.Header{"Etag": {etag}}, "")
			case req.Method == http.MethodPost && q.Has("uploadId"):
				return response(200, nil, completeBody)
			case req.Method == http.MethodDelete && q.Has("uploadId"):
				return response(204, nil, "")
			default:
				return response(400, nil, "")
			}
		},
	}
}

func TestMultipartEndToEnd(t *testing.T) {
	t.Parallel()

	transport := multipartTransport(completeDoc("photos", "big.bin"))
	c := testClient(transport)
	ctx := context.Background()

	upload, err := c.CreateMultipartUpload(ctx, "photos", "big.bin", nil)
	require.NoError(t, err)
	assert.Equal(t, "upload-1", upload.ID())

	// Out-of-order upload: the completion document must still list
	// parts ascending.
	require.NoError(t, upload.UploadPart(ctx, 2, []byte("part two")))
	require.NoError(t, upload.UploadPart(ctx, 1, []byte("part one")))

	etag, err := upload.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"d41d8cd98f00b204e9800998ecf8427e-2"`, etag.String())

	completeBody := transport.bodies[len(transport.bodies)-1]
	doc := string(completeBody)
	first := strings.Index(doc, "<PartNumber>1</PartNumber>")
	second := strings.Index(doc, "<PartNumber>2</PartNumber>")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, doc, `&#34;aa00&#34;`)

	// Session is consumed.
	err = upload.UploadPart(ctx, 3, []byte("late"))
	require.Error(t, err)
	assert.Equal(t, s3err.KindUnknown, s3err.KindOf(err))
}

func TestMultipartDuplicatePartNumberLastWins(t *testing.T) {
	t.Parallel()

	transport := multipartTransport(completeDoc("photos", "big.bin"))
	c := testClient(transport)
	ctx := context.Background()

	upload, err := c.CreateMultipartUpload(ctx, "photos", "big.bin", nil)
	require.NoError(t, err)

	require.NoError(t, upload.UploadPart(ctx, 1, []byte("v1")))
	require.NoError(t, upload.UploadPart(ctx, 2, []byte("only")))
	require.NoError(t, upload.UploadPart(ctx, 1, []byte("v2")))

	_, err = upload.Complete(ctx)
	require.NoError(t, err)

	doc := string(transport.bodies[len(transport.bodies)-1])
	assert.Equal(t, 1, strings.Count(doc, "<PartNumber>1</PartNumber>"))
	assert.Equal(t, 1, strings.Count(doc, "<PartNumber>2</PartNumber>"))
}

func TestMultipartCompleteBucketKeyMismatch(t *testing.T) {
	t.Parallel()

	transport := multipartTransport(completeDoc("photos", "other.bin"))
	c := testClient(transport)
	ctx := context.Background()

	upload, err := c.CreateMultipartUpload(ctx, "photos", "big.bin", nil)
	require.NoError(t, err)
	require.NoError(t, upload.UploadPart(ctx, 1, []byte("part")))

	_, err = upload.Complete(ctx)
	var se *s3err.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, s3err.KindUnknown, se.Kind)
	assert.Equal(t, -1, se.HTTPStatus)
	assert.Equal(t, "Bucket/key does not match", se.Code)
}

func TestMultipartAbortNotifiesService(t *testing.T) {
	t.Parallel()

	transport := multipartTransport(completeDoc("photos", "big.bin"))
	c := testClient(transport)
	ctx := context.Background()

	upload, err := c.CreateMultipartUpload(ctx, "photos", "big.bin", nil)
	require.NoError(t, err)
	require.NoError(t, upload.UploadPart(ctx, 1, []byte("part")))

	require.NoError(t, upload.Abort(ctx))

	last := transport.calls[len(transport.calls)-1]
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, "upload-1", last.URL.Query().Get("uploadId"))

	// Aborted sessions reject further work.
	require.Error(t, upload.UploadPart(ctx, 2, []byte("late")))
	_, err = upload.Complete(ctx)
	require.Error(t, err)
}

func TestMultipartInitiateDecodeFailure(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{response: response(200, nil, "<broken")}
	c := testClient(transport)

	_, err := c.CreateMultipartUpload(context.Background(), "photos", "big.bin", nil)
	var se *s3err.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, s3err.KindDecode, se.Kind, "initiate decode failure is a decode error, not transport")
}
