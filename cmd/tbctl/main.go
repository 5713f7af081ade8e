// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Command tbctl administers a running TravelBuddy server's caches.
//
//	tbctl cache list
//	tbctl cache stats enrichment
//	tbctl cache clear places_ai
//	tbctl cache clear            # every cache
//
// The admin secret is read from --admin-secret or ADMIN_SECRET.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &clientOptions{}

	root := &cobra.Command{
		Use:           "tbctl",
		Short:         "TravelBuddy cache administration",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", envOr("TRAVELBUDDY_URL", "http://localhost:5000"), "TravelBuddy base URL")
	root.PersistentFlags().StringVar(&opts.secret, "admin-secret", os.Getenv("ADMIN_SECRET"), "admin secret (default $ADMIN_SECRET)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "request timeout")

	root.AddCommand(newCacheCmd(opts))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
