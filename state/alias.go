// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import "github.com/EXCCoin/exccd/wire"

func aliasStorageKey(alias string) []byte {
	key := make([]byte, 0, 1+len(alias))
	key = append(key, 'l')
	return append(key, []byte(alias)...)
}

// GetAlias resolves a registered address alias.
func (ws *WorldState) GetAlias(alias string) (wire.Address, bool, error) {
	if d, ok := ws.aliases[alias]; ok {
		return d.NewValue, d.NewValue != wire.ZeroAddress, nil
	}
	raw, ok, err := ws.trieGet(aliasStorageKey(alias))
	if err != nil || !ok {
		return wire.ZeroAddress, false, err
	}
	addr, err := wire.AddressFromBytes(raw)
	return addr, err == nil, err
}

// PutAlias registers alias to resolve to address.
func (ws *WorldState) PutAlias(alias string, address wire.Address) error {
	cur, existed, err := ws.GetAlias(alias)
	if err != nil {
		return err
	}
	d, ok := ws.aliases[alias]
	if !ok {
		d = &Diff[wire.Address]{OldValue: cur, HadOld: existed}
	}
	d.NewValue = address
	ws.aliases[alias] = d
	return nil
}

// RemoveAlias deregisters alias.
func (ws *WorldState) RemoveAlias(alias string) error {
	cur, existed, err := ws.GetAlias(alias)
	if err != nil {
		return err
	}
	d, ok := ws.aliases[alias]
	if !ok {
		d = &Diff[wire.Address]{OldValue: cur, HadOld: existed}
	}
	d.NewValue = wire.ZeroAddress
	ws.aliases[alias] = d
	return nil
}
