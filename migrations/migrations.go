// Package migrations embeds the SQL schema for every supported database
// driver. Files live under a directory named after the driver.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
