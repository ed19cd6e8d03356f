// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the SQL schema so the binary migrates itself.
package migrations

import "embed"

// FS holds every *.up.sql / *.down.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
