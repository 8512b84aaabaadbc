// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "exccnoded.conf"
	defaultDataDirname    = "data"
	defaultIdentityFile   = ".node_identity"
	defaultNetwork        = "mainnet"
)

// config mirrors spec.md §6's configuration surface. Field names are
// chosen for go-flags' long-option derivation (p2p.host -> --p2phost
// would be ugly, so each group gets its own nested struct with its own
// `group` namespace instead), matching the option grouping the
// specification already uses.
type config struct {
	Network  string `long:"network" description:"Network to connect to: mainnet, testnet, simnet, regnet" default:"mainnet"`
	DataDir  string `long:"datadir" description:"Directory to store data"`
	HomeDir  string `long:"homedir" description:"Directory holding config and identity files"`

	IdentityFile       string `long:"identityfile" description:"Path to the node identity key file"`
	IdentityPassphrase string `long:"identitypassphrase" description:"Passphrase protecting the node identity file at rest" default:""`

	P2P struct {
		Host     string `long:"host" description:"P2P bind host" default:"0.0.0.0"`
		Port     uint16 `long:"port" description:"P2P bind port"`
		MaxPeers int    `long:"maxpeers" description:"Maximum outbound connections" default:"32"`
	} `group:"P2P Options" namespace:"p2p"`

	Proxy struct {
		Addr     string `long:"addr" description:"host:port of a SOCKS5 proxy to dial outbound peers through"`
		Username string `long:"username" description:"Username for SOCKS5 proxy authentication"`
		Password string `long:"password" description:"Password for SOCKS5 proxy authentication"`
	} `group:"Proxy Options" namespace:"proxy"`

	Directory struct {
		Host            string   `long:"host" description:"Directory registry base URL"`
		PingIntervalMs  int64    `long:"pingintervalms" description:"Directory ping interval, in milliseconds" default:"30000"`
		Disable         bool     `long:"disable" description:"Skip the directory registry entirely"`
		ManualPeers     []string `long:"manualpeers" description:"host:port of a peer to dial directly, repeatable"`
		AllowLocalPeers bool     `long:"allowlocalpeers" description:"Accept loopback/private peer addresses (test networks only)"`
	} `group:"Directory Options" namespace:"directory"`

	Mempool struct {
		MinAcceptableFee string `long:"minacceptablefee" description:"Floor fee in smallest native units" default:"0"`
		MaxBytes         int    `long:"maxbytes" description:"Maximum mempool footprint in bytes" default:"67108864"`
		MaxCount         int    `long:"maxcount" description:"Maximum mempool transaction count" default:"50000"`
		TTLMs            int64  `long:"ttlms" description:"Eviction age for a pending transaction, in milliseconds" default:"10800000"`
	} `group:"Mempool Options" namespace:"mempool"`

	Mining struct {
		Enabled  bool   `long:"enabled" description:"Mine new blocks"`
		Threads  int    `long:"threads" description:"Hash worker thread count" default:"0"`
		Coinbase string `long:"coinbase" description:"Address to credit mined block rewards to"`
	} `group:"Mining Options" namespace:"mining"`

	Debug struct {
		LogLevel string `long:"loglevel" description:"Logging level: trace, debug, info, warn, error, critical" default:"info"`
		LogDir   string `long:"logdir" description:"Directory to write log files to"`
	} `group:"Logging Options" namespace:"log"`
}

// loadConfig parses command-line and (if present) config-file options,
// applying defaults for every directory path that depends on homeDir.
func loadConfig() (*config, error) {
	cfg := config{
		Network: defaultNetwork,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.HomeDir = filepath.Join(home, ".exccnoded")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(cfg.HomeDir, defaultDataDirname)
	}
	if cfg.IdentityFile == "" {
		cfg.IdentityFile = filepath.Join(cfg.HomeDir, defaultIdentityFile)
	}
	if cfg.Debug.LogDir == "" {
		cfg.Debug.LogDir = filepath.Join(cfg.HomeDir, "logs")
	}

	switch cfg.Network {
	case "mainnet", "testnet", "simnet", "regnet":
	default:
		return nil, fmt.Errorf("unknown network %q", cfg.Network)
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Debug.LogDir, 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	return &cfg, nil
}
