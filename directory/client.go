// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package directory implements the directory client: a periodic, signed
// check-in with a registry service that hands back the current peer
// set, used to bootstrap and refresh outbound connectivity without a
// hardcoded seed list.
package directory

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/wire"
)

// ErrVersionTooOld is returned when the directory rejects a ping with
// HTTP 426 Upgrade Required: this node's protocol version has fallen
// below what the network currently accepts. The node has no way to
// self-upgrade, so this is treated as a fatal condition by whatever
// reads Config.OnFatal rather than retried like any other ping failure.
var ErrVersionTooOld = errors.New("directory: protocol version too old")

// Config parameterizes a Client. The zero value is not usable except
// for the durations, which DefaultConfig fills in.
type Config struct {
	// Endpoint is the directory's base URL; the client POSTs to
	// Endpoint + "/api/v1/node/ping".
	Endpoint string

	// ListenHost/ListenPort are this node's advertised P2P reachability.
	ListenHost string
	ListenPort uint16

	ProtocolVersion uint32
	SoftwareVersion string
	NetworkID       uint32

	// DirectoryIdentity is the directory's pinned signing address; a
	// response is accepted only if its signature recovers to this
	// address.
	DirectoryIdentity wire.Address

	PingInterval   time.Duration
	InitialDelay   time.Duration
	RequestTimeout time.Duration

	// AllowLocalPeers disables the non-routable/loopback host rejection,
	// for local test networks.
	AllowLocalPeers bool

	HTTPClient *http.Client

	// OnPeersUpdated, if set, is called with the full merged peer set
	// after every successful ping — the hook the node wiring uses to
	// feed addrmgr's known-address set.
	OnPeersUpdated func([]PeerAdvert)

	// OnFatal, if set, is called once with ErrVersionTooOld the first
	// time the directory rejects a ping as unsupported. The ping loop
	// keeps running afterward; it's up to the caller to shut the node
	// down.
	OnFatal func(error)
}

// DefaultConfig fills in the spec-mandated defaults, leaving Endpoint,
// ListenHost/Port, and DirectoryIdentity for the caller to set.
func DefaultConfig() Config {
	return Config{
		PingInterval:   30 * time.Second,
		InitialDelay:   10 * time.Second,
		RequestTimeout: 15 * time.Second,
		HTTPClient:     http.DefaultClient,
	}
}

// Client periodically pings a directory endpoint and maintains a
// PeerTable from its responses.
type Client struct {
	cfg      Config
	chain    *blockchain.BlockChain
	signer   crypto.Signer
	verifier crypto.Verifier
	Table    *PeerTable

	quit chan struct{}
}

// New constructs a Client bound to chain and starts its ping loop.
// signer signs the outgoing payload with this node's identity; verifier
// recovers the signing address from the directory's response so it can
// be checked against cfg.DirectoryIdentity.
func New(chain *blockchain.BlockChain, signer crypto.Signer, verifier crypto.Verifier, cfg Config) *Client {
	c := &Client{
		cfg:      cfg,
		chain:    chain,
		signer:   signer,
		verifier: verifier,
		Table:    NewPeerTable(),
		quit:     make(chan struct{}),
	}
	go c.run()
	return c
}

// Stop terminates the ping loop.
func (c *Client) Stop() {
	close(c.quit)
}

func (c *Client) run() {
	timer := time.NewTimer(c.cfg.InitialDelay)
	defer timer.Stop()
	fatalReported := false
	for {
		select {
		case <-timer.C:
			if err := c.ping(); errors.Is(err, ErrVersionTooOld) && c.cfg.OnFatal != nil && !fatalReported {
				fatalReported = true
				c.cfg.OnFatal(err)
			}
			timer.Reset(c.cfg.PingInterval)
		case <-c.quit:
			return
		}
	}
}

// envelope is the JSON wire shape of both the ping request and its
// response: a hex-encoded canonical-codec payload plus the hash and
// signature over it, also hex-encoded.
type envelope struct {
	Payload   string `json:"payload"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

// ping builds the current status payload, signs and POSTs it, verifies
// the response against the pinned directory identity, and merges the
// returned peer set into c.Table.
func (c *Client) ping() error {
	payload := c.buildPayload()

	e := wire.NewEncoder()
	payload.Encode(e)
	payloadBytes := e.Bytes()
	hash := wire.ContentHash(payloadBytes)

	sig, err := c.signer.Sign(hash)
	if err != nil {
		return fmt.Errorf("directory: sign ping payload: %w", err)
	}

	reqEnv := envelope{
		Payload:   hex.EncodeToString(payloadBytes),
		Hash:      hex.EncodeToString(hash[:]),
		Signature: hex.EncodeToString(sig[:]),
	}

	respEnv, err := c.postPing(reqEnv)
	if err != nil {
		return err
	}

	respPayloadBytes, err := hex.DecodeString(respEnv.Payload)
	if err != nil {
		return fmt.Errorf("directory: decode response payload hex: %w", err)
	}
	respSigBytes, err := hex.DecodeString(respEnv.Signature)
	if err != nil {
		return fmt.Errorf("directory: decode response signature hex: %w", err)
	}
	if len(respSigBytes) != wire.SignatureSize {
		return fmt.Errorf("directory: response signature has %d bytes, want %d", len(respSigBytes), wire.SignatureSize)
	}
	var respSig wire.Signature
	copy(respSig[:], respSigBytes)

	respHash := wire.ContentHash(respPayloadBytes)
	signer, err := c.verifier.RecoverAddress(respHash, respSig)
	if err != nil {
		return fmt.Errorf("directory: recover response signer: %w", err)
	}
	if signer != c.cfg.DirectoryIdentity {
		return fmt.Errorf("directory: response signed by %s, pinned identity is %s", signer, c.cfg.DirectoryIdentity)
	}

	resp, err := decodeResponsePayload(wire.NewDecoder(respPayloadBytes))
	if err != nil {
		return fmt.Errorf("directory: decode response payload: %w", err)
	}

	c.Table.Merge(resp.Peers, c.cfg.AllowLocalPeers)
	if c.cfg.OnPeersUpdated != nil {
		c.cfg.OnPeersUpdated(c.Table.Snapshot())
	}
	return nil
}

func (c *Client) buildPayload() *PingPayload {
	headHash, headHeight, totalDifficulty := c.chain.Tip()
	return &PingPayload{
		ListenHost:      c.cfg.ListenHost,
		ListenPort:      c.cfg.ListenPort,
		ProtocolVersion: c.cfg.ProtocolVersion,
		SoftwareVersion: c.cfg.SoftwareVersion,
		Timestamp:       time.Now().Unix(),
		NetworkID:       c.cfg.NetworkID,
		SelfIdentity:    c.signer.Address(),
		TotalDifficulty: totalDifficulty,
		HeadHash:        headHash,
		HeadHeight:      headHeight,
	}
}

func (c *Client) postPing(req envelope) (*envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("directory: encode request envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RequestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/api/v1/node/ping", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("directory: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("directory: ping request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUpgradeRequired {
		return nil, ErrVersionTooOld
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory: ping returned status %d", resp.StatusCode)
	}

	var respEnv envelope
	if err := json.NewDecoder(resp.Body).Decode(&respEnv); err != nil {
		return nil, fmt.Errorf("directory: decode response envelope: %w", err)
	}
	return &respEnv, nil
}
