// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command exccnoded runs a full node: chain validation and storage,
// mempool admission, P2P sync and gossip, directory-assisted peer
// discovery, and optional mining.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/EXCCoin/exccd/chaincfg"
)

// softwareVersion is advertised in the STATUS handshake and directory
// pings.
const softwareVersion = "exccnoded/0.1.0"

// Exit codes, per the node's external-interface contract: 0 clean
// shutdown, 1 fatal initialization failure, 2 protocol version rejected
// by the directory.
const (
	exitOK            = 0
	exitInitFailure   = 1
	exitVersionTooOld = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "exccnoded: %v\n", err)
		return exitInitFailure
	}

	loggers, err := initLogging(cfg.Debug.LogDir, cfg.Debug.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exccnoded: init logging: %v\n", err)
		return exitInitFailure
	}
	defer closeLogging()
	nodeLog := loggers["NODE"]

	params, err := netParamsByName(cfg.Network)
	if err != nil {
		nodeLog.Errorf("%v", err)
		return exitInitFailure
	}

	signer, err := loadOrCreateIdentity(cfg.IdentityFile, cfg.IdentityPassphrase)
	if err != nil {
		nodeLog.Errorf("load identity: %v", err)
		return exitInitFailure
	}
	nodeLog.Infof("node identity %s", signer.Address())

	if cfg.P2P.Port == 0 {
		cfg.P2P.Port = defaultPortFor(params)
	}

	n, err := newNode(cfg, params, signer, loggers)
	if err != nil {
		nodeLog.Errorf("initialize node: %v", err)
		return exitInitFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := n.Start(ctx); err != nil {
		nodeLog.Errorf("start node: %v", err)
		return exitInitFailure
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, unix.SIGTERM)

	exitCode := exitOK
	select {
	case sig := <-sigCh:
		nodeLog.Infof("received %s, shutting down", sig)
	case fatalErr := <-n.Fatal():
		nodeLog.Errorf("fatal: %v", fatalErr)
		exitCode = exitVersionTooOld
	}

	cancel()
	n.Stop()
	nodeLog.Infof("shutdown complete")
	return exitCode
}

// defaultPortFor parses params.DefaultPort, falling back to 0 (let the
// OS pick an ephemeral port) if it is malformed — defensive only
// against a params table typo, never expected in practice.
func defaultPortFor(params *chaincfg.Params) uint16 {
	port, err := strconv.Atoi(params.DefaultPort)
	if err != nil || port < 0 || port > 0xffff {
		return 0
	}
	return uint16(port)
}
