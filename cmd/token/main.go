// Command token mints an access token signed with JWT_SECRET and prints it
// to stdout. It bootstraps the first admin token, which the API cannot issue.
//
//	token --customer A --permissions admin --expires-hours 720
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/config"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/database"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

func main() {
	var opts mintOptions
	pflag.StringVar(&opts.customerCode, "customer", "", "customer code to scope the token to (looked up in DB_DSN)")
	pflag.StringVar(&opts.customerID, "customer-id", "", "customer UUID; no database lookup")
	pflag.StringSliceVar(&opts.permissions, "permissions", []string{"read"}, "comma-separated permissions: read, write, admin")
	pflag.IntVar(&opts.expiresHours, "expires-hours", query.DefaultExpiresHours, "token lifetime in hours")
	pflag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	ctx := context.Background()

	var lookup customerLookup
	if opts.customerCode != "" {
		db, err := database.Connect(config.DBDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		lookup = repository.New(db)
	}

	issuer := auth.NewTokenIssuer(config.JWTSecret(), config.JWTIssuer(), nil)
	tok, err := mint(ctx, issuer, lookup, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("mint token failed")
	}

	log.Info().
		Strs("permissions", opts.permissions).
		Time("expires_at", tok.ExpiresAt).
		Msg("token issued")
	fmt.Println(tok.Token)
}
