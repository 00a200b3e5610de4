// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3wire

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Etag is a content digest as carried on the wire: a hex string wrapped
// in one pair of double quotes. Multipart etags carry a "-N" suffix
// after the hex, so the raw string is preserved rather than forced
// through a binary digest.
type Etag string

// ParseEtag strips one leading and one trailing quote and validates the
// hex portion. Values without quotes are rejected; the service always
// quotes etags.
func ParseEtag(s string) (Etag, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("etag %q: missing quotes", s)
	}
	inner := s[1 : len(s)-1]
	hexPart := inner
	if i := strings.IndexByte(inner, '-'); i >= 0 {
		hexPart = inner[:i]
	}
	if _, err := hex.DecodeString(hexPart); err != nil {
		return "", fmt.Errorf("etag %q: %w", s, err)
	}
	return Etag(inner), nil
}

// String re-adds the quotes for the wire.
func (e Etag) String() string {
	return `"` + string(e) + `"`
}

// Digest returns the decoded hex digest, without any multipart suffix.
func (e Etag) Digest() ([]byte, error) {
	hexPart := string(e)
	if i := strings.IndexByte(hexPart, '-'); i >= 0 {
		hexPart = hexPart[:i]
	}
	return hex.DecodeString(hexPart)
}
