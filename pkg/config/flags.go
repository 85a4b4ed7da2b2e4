// Kiwidb is configured entirely through command-line flags; this module centralizes the flags that don't
// naturally belong to a single package (the listen address) and the init-order glue between flag.Parse and logging.

package config

import (
	"flag"
)

// Address is the ip:port the RESP server listens on.
var Address = flag.String("address", "127.0.0.1:6379", "The ip:port to listen on for the Redis protocol.")

// InitFlags parses the command-line flags. It must be called once, after every flag.String/flag.Bool/... in the
// binary has registered itself, and before any flag is read.
func InitFlags() {
	flag.Parse()
}
