// Package games embeds the bundled game content.
package games

import "embed"

// FS holds every bundled game, one directory each.
//
//go:embed classic/*.lua
var FS embed.FS

// Classic is the directory of the default game within FS.
const Classic = "classic"
