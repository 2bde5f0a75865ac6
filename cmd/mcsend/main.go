package main

import (
	"github.com/blockcast/go-announce"
	"github.com/projectdiscovery/gologger"
)

func main() {
	a := &announce.Announcer{}
	if err := a.Open(); err != nil {
		gologger.Fatal().Msgf("Could not open multicast socket: %s\n", err)
	}
	defer a.Close()

	if _, err := a.Announce(); err != nil {
		gologger.Fatal().Msgf("Could not send announcement: %s\n", err)
	}
}
