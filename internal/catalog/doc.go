// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package catalog assembles the views dexctl offers (listing, gallery,
// detail, evolution line) out of individual catalog API reads. Results carry
// jsonapi tags so they can be fed to the common output routine.
package catalog
