// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package signer signs outgoing requests with AWS Signature Version 4.
// https://docs.aws.amazon.com/general/latest/gr/signature-version-4.html
//
// The client core treats credentials as opaque; this package is the only
// place that reads them.
package signer

import (
	"context"
	"crypto/hmac"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapcli/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/minio/sha256-simd"
)

const (
	AuthHeaderV4 = "AWS4-HMAC-SHA256"

	Iso8601BasicFormat = "20060102T150405Z"
	Iso8601DateFormat  = "20060102"

	// Precomputed SHA256 hash of an empty payload
	HashedEmptyPayload = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	service = "s3"
)

// V4Signer signs requests for one credential source. The region varies
// per request so the caller can follow cross-region redirects with the
// same signer.
type V4Signer struct {
	creds aws.CredentialsProvider

	// now is swappable for tests.
	now func() time.Time
}

// NewV4Signer creates a signer over the given credential provider.
func NewV4Signer(creds aws.CredentialsProvider) *V4Signer {
	return &V4Signer{
		creds: creds,
		now:   time.Now,
	}
}

// Sign computes and attaches the Authorization header for req.
// payloadHash is the lowercase hex SHA256 of the request body (use
// HashedEmptyPayload for bodyless requests). The request's Host, URL
// and headers must be final before signing.
func (s *V4Signer) Sign(ctx context.Context, req *http.Request, payloadHash, region string) error {
	creds, err := s.creds.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("retrieve credentials: %w", err)
	}

	t := s.now().UTC()
	amzDate := t.Format(Iso8601BasicFormat)
	dateStamp := t.Format(Iso8601DateFormat)

	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	if creds.SessionToken != "" {
		req.Header.Set("X-Amz-Security-Token", creds.SessionToken)
	}

	canonicalReq, signedHeaders := buildCanonicalRequest(req, payloadHash)

	scope := strings.Join([]string{dateStamp, region, service, "aws4_request"}, "/")
	stringToSign := buildStringToSign(amzDate, scope, canonicalReq)

	signingKey := deriveSigningKey(creds.SecretAccessKey, dateStamp, region)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	req.Header.Set("Authorization", fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		AuthHeaderV4, creds.AccessKeyID, scope, signedHeaders, signature,
	))

	return nil
}

// buildCanonicalRequest creates the SigV4 canonical request string and
// returns it with the semicolon-joined signed header list.
// Every header present on the request is signed.
func buildCanonicalRequest(req *http.Request, payloadHash string) (string, string) {
	canonicalURI := encodeCanonicalURI(req.URL.Path)
	canonicalQuery := buildCanonicalQueryString(req.URL.Query())
	canonicalHeaders, signedHeaders := buildCanonicalHeaders(req)

	canonical := strings.Join([]string{
		req.Method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	return canonical, signedHeaders
}

// buildCanonicalQueryString creates the sorted canonical query string.
func buildCanonicalQueryString(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		vals := append([]string(nil), query[k]...)
		sort.Strings(vals)
		for _, v := range vals {
			parts = append(parts, queryEscape(k)+"="+queryEscape(v))
		}
	}

	return strings.Join(parts, "&")
}

// queryEscape encodes per RFC 3986: spaces become %20, not +.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// buildCanonicalHeaders creates the sorted lowercase header block and
// the signed header list, in matching order.
func buildCanonicalHeaders(req *http.Request) (string, string) {
	headers := map[string][]string{
		"host": {req.Host},
	}
	for name, vals := range req.Header {
		lower := strings.ToLower(name)
		if lower == "authorization" {
			continue
		}
		headers[lower] = vals
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		vals := headers[name]
		trimmed := make([]string, len(vals))
		for i, v := range vals {
			trimmed[i] = strings.TrimSpace(v)
		}
		parts = append(parts, name+":"+strings.Join(trimmed, ","))
	}

	return strings.Join(parts, "\n") + "\n", strings.Join(names, ";")
}

// buildStringToSign creates the SigV4 string to sign.
func buildStringToSign(amzDate, scope, canonicalRequest string) string {
	h := utils.Sha256PoolGetHasher()
	h.Write([]byte(canonicalRequest))
	hashedRequest := hex.EncodeToString(h.Sum(nil))
	utils.Sha256PoolPutHasher(h)

	return strings.Join([]string{
		AuthHeaderV4,
		amzDate,
		scope,
		hashedRequest,
	}, "\n")
}

// deriveSigningKey derives the signing key using the HMAC-SHA256 chain:
// kSigning = HMAC(HMAC(HMAC(HMAC("AWS4"+secret, date), region), "s3"), "aws4_request")
func deriveSigningKey(secretKey, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// encodeCanonicalURI encodes a path for the canonical URI. Each segment
// is encoded separately so slashes stay path separators.
func encodeCanonicalURI(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	path = strings.TrimPrefix(path, "/")

	segments := strings.Split(path, "/")
	encoded := make([]string, len(segments))
	for i, segment := range segments {
		encoded[i] = url.PathEscape(segment)
	}

	return "/" + strings.Join(encoded, "/")
}
