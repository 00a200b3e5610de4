// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import "fmt"

// ByteRange selects part of an object on Get. Both ends are optional:
// only First gives "from offset to end", a negative Last alone gives
// "last N bytes", both give an inclusive span. A zero ByteRange sends
// no Range header at all.
type ByteRange struct {
	First *int64
	Last  *int64
}

// Header renders the HTTP Range header value, or "" when no header
// should be sent.
func (r *ByteRange) Header() string {
	switch {
	case r == nil || (r.First == nil && r.Last == nil):
		return ""
	case r.First != nil && r.Last != nil:
		return fmt.Sprintf("bytes=%d-%d", *r.First, *r.Last)
	case r.First != nil:
		return fmt.Sprintf("bytes=%d-", *r.First)
	case *r.Last < 0:
		// "last N bytes"
		return fmt.Sprintf("bytes=%d", *r.Last)
	default:
		return fmt.Sprintf("bytes=0-%d", *r.Last)
	}
}
