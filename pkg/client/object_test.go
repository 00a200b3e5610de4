// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records requests and replays canned responses.
type fakeTransport struct {
	calls    []*http.Request
	bodies   [][]byte
	handler  func(req *http.Request, body []byte) *http.Response
	response *http.Response
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	f.calls = append(f.calls, req)
	f.bodies = append(f.bodies, body)
	if f.handler != nil {
		return f.handler(req, body), nil
	}
	return f.response, nil
}

func response(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testClient(transport Doer) *Client {
	return New(Config{
		Region:    "us-east-1",
		Transport: transport,
	})
}

func TestPutReturnsEtag(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		response: response(200, http.Header{"Etag": {`"d41d8cd98f00b204e9800998ecf8427e"`}}, ""),
	}
	c := testClient(transport)

	etag, err := c.Put(context.Background(), "photos", "a.jpg", []byte("data"), &PutOptions{
		ContentType: "image/jpeg",
		ACL:         "public-read",
	})
	require.NoError(t, err)
	assert.Equal(t, `"d41d8cd98f00b204e9800998ecf8427e"`, etag.String())

	require.Len(t, transport.calls, 1)
	req := transport.calls[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/photos/a.jpg", req.URL.Path)
	assert.Equal(t, "image/jpeg", req.Header.Get("Content-Type"))
	assert.Equal(t, "public-read", req.Header.Get("x-amz-acl"))
	assert.Equal(t, "data", string(transport.bodies[0]))
}

func TestPutMissingEtagIsProtocolViolation(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{response: response(200, nil, "")}
	c := testClient(transport)

	_, err := c.Put(context.Background(), "photos", "a.jpg", []byte("data"), nil)
	var se *s3err.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, s3err.KindUnknown, se.Kind)
	assert.Equal(t, -1, se.HTTPStatus)
}

func TestGetRangeHeaders(t *testing.T) {
	t.Parallel()

	first5 := int64(5)
	last10 := int64(10)
	lastNeg10 := int64(-10)

	tests := []struct {
		name string
		rng  *ByteRange
		want string
	}{
		{"nil range", nil, ""},
		{"empty range", &ByteRange{}, ""},
		{"both ends", &ByteRange{First: &first5, Last: &last10}, "bytes=5-10"},
		{"first only", &ByteRange{First: &first5}, "bytes=5-"},
		{"last n bytes", &ByteRange{Last: &lastNeg10}, "bytes=-10"},
		{"last non-negative", &ByteRange{Last: &last10}, "bytes=0-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{response: response(206, nil, "partial")}
			c := testClient(transport)

			body, err := c.Get(context.Background(), "photos", "a.jpg", tt.rng)
			require.NoError(t, err)
			assert.Equal(t, "partial", string(body))

			req := transport.calls[0]
			if tt.want == "" {
				_, present := req.Header["Range"]
				assert.False(t, present, "no Range header expected")
			} else {
				assert.Equal(t, tt.want, req.Header.Get("Range"))
			}
		})
	}
}

func TestDeleteAccepts204(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{response: response(204, nil, "")}
	c := testClient(transport)

	require.NoError(t, c.Delete(context.Background(), "photos", "a.jpg"))
	assert.Equal(t, http.MethodDelete, transport.calls[0].Method)
}

func TestDeleteMultiEmptyShortCircuits(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	c := testClient(transport)

	result, err := c.DeleteMulti(context.Background(), "photos", nil, false)
	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
	assert.Empty(t, result.Errors)
	assert.Empty(t, transport.calls, "empty delete must not touch the transport")
}

func TestDeleteMulti(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		response: response(200, nil, `<?xml version="1.0"?>
<DeleteResult>
  <Deleted><Key>a.txt</Key></Deleted>
  <Error><Key>b.txt</Key><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>
</DeleteResult>`),
	}
	c := testClient(transport)

	result, err := c.DeleteMulti(context.Background(), "photos", []s3wire.DeleteObject{
		{Key: "a.txt"},
		{Key: "b.txt"},
	}, false)
	require.NoError(t, err, "per-object failures are not a top-level error")
	require.Len(t, result.Deleted, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "AccessDenied", result.Errors[0].Code)

	req := transport.calls[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/photos", req.URL.Path)
	_, hasDelete := req.URL.Query()["delete"]
	assert.True(t, hasDelete)

	// Content-MD5 must cover the exact encoded body.
	sum := md5.Sum(transport.bodies[0])
	assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), req.Header.Get("Content-MD5"))
	assert.Contains(t, string(transport.bodies[0]), "<Delete>")
}

func TestExecuteSingleRoundTrip(t *testing.T) {
	t.Parallel()

	// A throttle must surface as-is: the engine never retries.
	transport := &fakeTransport{response: response(503, nil, "")}
	c := testClient(transport)

	err := c.Delete(context.Background(), "photos", "a.jpg")
	var se *s3err.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, s3err.KindThrottled, se.Kind)
	assert.Len(t, transport.calls, 1)
}
