// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"
	"time"
)

var (
	errRequestTimeout = errors.New("peer: request timed out")
	errPeerClosed     = errors.New("peer: connection closed")
)

func timeoutChan(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func nowUnix() int64 {
	return time.Now().Unix()
}
