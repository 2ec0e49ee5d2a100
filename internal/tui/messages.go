// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/staranto/dexctl/internal/catalog"
	"github.com/staranto/dexctl/internal/token"
)

// listLoadedMsg carries a finished listing load.
type listLoadedMsg struct {
	tok     token.Token
	entries []*catalog.Entry
	err     error
}

// detailLoadedMsg carries a finished detail load. tok.Target() is what was
// asked for, which is not always detail.Name.
type detailLoadedMsg struct {
	tok    token.Token
	detail *catalog.Detail
	err    error
}
