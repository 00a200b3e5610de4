// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"strings"

	"github.com/LeeDigitalWorks/zapcli/pkg/s3err"
	"github.com/LeeDigitalWorks/zapcli/pkg/s3wire"
)

// Classify maps an HTTP status plus the (possibly empty, possibly
// garbage) response body to a typed outcome. Pure function; the body is
// only parsed for statuses that can carry an error document. 2xx and
// 404 never do, and 500/503 are throttles regardless of what the body
// says.
func Classify(status int, body []byte) error {
	switch {
	case status >= 200 && status <= 299:
		return nil

	case status == 404:
		return s3err.NotFound()

	case status == 500 || status == 503:
		return s3err.Throttled(status)

	case status >= 300 && status < 500:
		doc, ok := s3wire.DecodeError(body)
		if !ok {
			return s3err.Unknown(status, "", "")
		}
		switch doc.Code {
		case "PermanentRedirect", "TemporaryRedirect":
			if doc.Endpoint != "" {
				if region, ok := RegionOfEndpoint(doc.Endpoint); ok {
					return s3err.Redirect(region)
				}
			}
		case "AuthorizationHeaderMalformed":
			// The service reports the right region directly when the
			// credential scope named the wrong one.
			if doc.Region != "" {
				return s3err.Redirect(doc.Region)
			}
		}
		return s3err.Unknown(status, doc.Code, doc.Message)

	default:
		code, message := "", ""
		if doc, ok := s3wire.DecodeError(body); ok {
			code, message = doc.Code, doc.Message
		}
		return s3err.Unknown(status, code, message)
	}
}

// RegionOfEndpoint derives a region from a redirect endpoint host such
// as "bucket.s3-eu-west-1.amazonaws.com" or "s3.ap-south-1.amazonaws.com".
// The bare "s3.amazonaws.com" endpoint is us-east-1.
func RegionOfEndpoint(endpoint string) (string, bool) {
	labels := strings.Split(endpoint, ".")
	for i, label := range labels {
		switch {
		case label == "s3":
			if i+1 < len(labels) && labels[i+1] != "amazonaws" {
				return labels[i+1], true
			}
			return "us-east-1", true
		case strings.HasPrefix(label, "s3-") && len(label) > 3:
			return label[3:], true
		}
	}
	return "", false
}
