// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package token issues request tokens so that a view can tell whether a
// finished load still belongs to what it is currently showing.
package token

import "sync"

// Token identifies one load for one target.
type Token struct {
	seq    uint64
	target string
}

// Target is the id or name the load was started for.
func (t Token) Target() string {
	return t.target
}

// Issuer hands out tokens. Only the most recent token is current.
type Issuer struct {
	mu  sync.Mutex
	seq uint64
}

// Begin supersedes every earlier token and returns a new current one.
func (i *Issuer) Begin(target string) Token {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seq++
	return Token{seq: i.seq, target: target}
}

// Current reports whether t is the most recently issued token.
func (i *Issuer) Current(t Token) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return t.seq != 0 && t.seq == i.seq
}
