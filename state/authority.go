// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import "github.com/EXCCoin/exccd/wire"

const authorityCountStorageKeyLiteral = "authority_count"

func authorityCountStorageKey() []byte { return []byte(authorityCountStorageKeyLiteral) }

func encodeAuthorityCount(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

func decodeAuthorityCount(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func authorityStorageKey(addr wire.Address) []byte {
	key := make([]byte, 0, 1+20)
	key = append(key, 'a')
	return append(key, addr[:]...)
}

func validatorStorageKey(addr wire.Address) []byte {
	key := make([]byte, 0, 1+20)
	key = append(key, 'v')
	return append(key, addr[:]...)
}

// IsAuthority reports whether addr currently holds BIP-voting authority.
func (ws *WorldState) IsAuthority(addr wire.Address) (bool, error) {
	if d, ok := ws.authorities[addr]; ok {
		return d.NewValue, nil
	}
	raw, ok, err := ws.trieGet(authorityStorageKey(addr))
	if err != nil {
		return false, err
	}
	return ok && len(raw) == 1 && raw[0] == 1, nil
}

// PutAuthority grants addr authority status.
func (ws *WorldState) PutAuthority(addr wire.Address) error {
	return ws.setAuthority(addr, true)
}

// RemoveAuthority revokes addr's authority status.
func (ws *WorldState) RemoveAuthority(addr wire.Address) error {
	return ws.setAuthority(addr, false)
}

func (ws *WorldState) setAuthority(addr wire.Address, present bool) error {
	cur, err := ws.IsAuthority(addr)
	if err != nil {
		return err
	}
	d, ok := ws.authorities[addr]
	if !ok {
		d = &Diff[bool]{OldValue: cur, HadOld: cur}
	}
	d.NewValue = present
	ws.authorities[addr] = d

	if present != cur {
		count, err := ws.GetAuthorityCount()
		if err != nil {
			return err
		}
		if present {
			count++
		} else {
			count--
		}
		ws.authorityCount = &Diff[uint32]{NewValue: count}
	}
	return nil
}

// GetAuthorityCount returns the current (possibly staged) total number
// of addresses holding BIP-voting authority, used to derive the
// approval threshold for a pending BIP.
func (ws *WorldState) GetAuthorityCount() (uint32, error) {
	if ws.authorityCount != nil {
		return ws.authorityCount.NewValue, nil
	}
	raw, ok, err := ws.trieGet(authorityCountStorageKey())
	if err != nil || !ok {
		return 0, err
	}
	return decodeAuthorityCount(raw), nil
}

// IsValidator reports whether addr is a registered block-producing
// validator identity.
func (ws *WorldState) IsValidator(addr wire.Address) (bool, error) {
	if d, ok := ws.validators[addr]; ok {
		return d.NewValue, nil
	}
	raw, ok, err := ws.trieGet(validatorStorageKey(addr))
	if err != nil {
		return false, err
	}
	return ok && len(raw) == 1 && raw[0] == 1, nil
}

// PutValidator registers addr as a validator identity.
func (ws *WorldState) PutValidator(addr wire.Address) error {
	cur, err := ws.IsValidator(addr)
	if err != nil {
		return err
	}
	d, ok := ws.validators[addr]
	if !ok {
		d = &Diff[bool]{OldValue: cur, HadOld: cur}
	}
	d.NewValue = true
	ws.validators[addr] = d
	return nil
}

// RemoveValidator deregisters addr as a validator identity.
func (ws *WorldState) RemoveValidator(addr wire.Address) error {
	cur, err := ws.IsValidator(addr)
	if err != nil {
		return err
	}
	d, ok := ws.validators[addr]
	if !ok {
		d = &Diff[bool]{OldValue: cur, HadOld: cur}
	}
	d.NewValue = false
	ws.validators[addr] = d
	return nil
}
