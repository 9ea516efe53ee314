/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic.
	Call flag.Parse() in main before reading any of them; until then they hold
	their defaults, which is what tests see.
*/

package flag

import (
	"flag"
)

const (
	APIServer     = "api_server"
	ContentPuller = "content_puller"
)

var (
	ServiceName = flag.String("service", APIServer, "'api_server' or 'content_puller'")
	// Skip the cron puller even if it is enabled in env, useful when several
	// api replicas share the same database.
	DisablePuller = flag.Bool("disable_puller", false, "do not start the periodic content puller in this process")
)
