// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller resolves dotted attribute paths, with optional [n]
// indexes, against JSON documents for the --attrs and --filter flags.
package driller
