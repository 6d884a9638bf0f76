// Copyright (c) 2015-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.
//

// Package signer implements the HMAC scheme used to authenticate webhook
// deliveries to subscribers.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sign computes the lowercase hex HMAC-SHA256 of "<timestamp>.<payload>"
// keyed by the subscription secret. The timestamp is epoch seconds and is
// sent alongside the signature so receivers can recompute it from the raw
// request body.
func Sign(payload, secret string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches payload and timestamp under
// secret. The comparison is constant time.
func Verify(payload, secret, signature string, timestamp int64) bool {
	expected := Sign(payload, secret, timestamp)

	return hmac.Equal([]byte(expected), []byte(signature))
}
