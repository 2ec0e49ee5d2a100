// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a small in-memory TTL cache keyed by string. It is
// used to avoid refetching catalog responses that were retrieved recently.
// Entries are never evicted except by expiry or explicit invalidation.
package cache
