// Command storyctl plays and administers branching stories against the same
// storage the server uses.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		console.Error().Err(err).Msg("storyctl failed")
		os.Exit(1)
	}
}
