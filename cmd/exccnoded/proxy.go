// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"net"
	"strconv"

	"github.com/decred/go-socks/socks"

	"github.com/EXCCoin/exccd/connmgr"
)

// newDialer returns the connmgr.Config fields that route outbound dials
// through a SOCKS5 proxy. When cfg.Proxy.Addr is unset it returns a zero
// Config, leaving Dial nil so connmgr.New installs its own direct-dial
// default.
func newDialer(cfg *config) connmgr.Config {
	if cfg.Proxy.Addr == "" {
		return connmgr.Config{}
	}
	proxy := &socks.Proxy{
		Addr:     cfg.Proxy.Addr,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	return connmgr.Config{
		Dial: func(_ context.Context, host string, port uint16) (net.Conn, error) {
			return proxy.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
		},
	}
}

// dialTCP opens hostport directly, or through the configured SOCKS5 proxy
// when one is set; used for manually configured peers, which connmgr's
// candidate-keyed Dial does not cover.
func dialTCP(cfg *config, hostport string) (net.Conn, error) {
	if cfg.Proxy.Addr == "" {
		return net.Dial("tcp", hostport)
	}
	proxy := &socks.Proxy{
		Addr:     cfg.Proxy.Addr,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	return proxy.Dial("tcp", hostport)
}
