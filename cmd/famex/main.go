package main

import (
	"github.com/rs/zerolog/log"

	"github.com/famexio/famex/cmd/famex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
