// Package appfs exposes the app's embedded file assets.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
