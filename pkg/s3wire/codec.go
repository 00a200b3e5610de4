// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3wire

import (
	"encoding/xml"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
)

// Namespace is the xmlns the service stamps on response documents.
const Namespace = "http://s3.amazonaws.com/doc/2006-03-01/"

// Encode marshals a request document. The schemas in this package fix
// their root element via XMLName, so the wire root never depends on the
// Go type name. Encoding a valid in-memory value does not fail; the
// error return exists for interface symmetry and future schemas.
func Encode(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, s3err.Decode(err)
	}
	return append([]byte(xml.Header), out...), nil
}

// Decode unmarshals a response document into v. A parse failure is a
// decode-kind error: the transport exchange succeeded, the body did not.
func Decode(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return s3err.Decode(err)
	}
	return nil
}

// DecodeError parses an error document. Used by the response
// classifier for non-2xx bodies; a nil return with ok=false means the
// body was not a well-formed error document.
func DecodeError(data []byte) (*ErrorDocument, bool) {
	var doc ErrorDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
