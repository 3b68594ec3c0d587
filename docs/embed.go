// Package docs bundles the long-form guides shown by 'gdpp docs'.
package docs

import "embed"

// FS contains the Markdown guides bundled with the gdpp binary.
//
//go:embed guide
var FS embed.FS
