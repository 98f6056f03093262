// Command shoutout manages shoutout templates and the streamer roster and
// generates chat-bot shoutout commands, either from the command line or
// through the REST API started by "shoutout serve".
//
//	@title			Shoutout Manager API
//	@version		1.0
//	@description	Manage shoutout templates, the streamer roster and groups, and generate chat-bot shoutout commands.
//	@BasePath		/api/v1
package main

import (
	"fmt"
	"os"

	"github.com/tbourn/go-shoutout-manager/cmd/shoutout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
