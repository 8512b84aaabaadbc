// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaincfg defines chain configuration parameters for the four
networks supported by exccd (main, test, sim, reg) and provides the single
Params type threaded through every other package that needs consensus
constants.
*/
package chaincfg
