// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCmd(opts *clientOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear server caches",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every cache with its counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(opts)
			if err != nil {
				return err
			}
			list, err := c.listCaches(cmd.Context())
			if err != nil {
				return err
			}
			if len(list.Caches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No caches registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tMAX\tPOLICY\tTTL\tHITS\tMISSES\tHIT RATE")
			for _, s := range list.Caches {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%d\t%d\t%.1f%%\n",
					s.Name, s.Size, maxEntries(s.MaxEntries), s.Policy, ttl(s.TTLMs), s.Hits, s.Misses, s.HitRate)
			}
			return w.Flush()
		},
	}

	var showKeys bool
	statsCmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Show detailed counters for one cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(opts)
			if err != nil {
				return err
			}
			d, err := c.cacheStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", d.Name)
			fmt.Fprintf(w, "Entries:\t%d / %s\n", d.Size, maxEntries(d.MaxEntries))
			fmt.Fprintf(w, "Policy:\t%s\n", d.Policy)
			fmt.Fprintf(w, "TTL:\t%s\n", ttl(d.TTLMs))
			fmt.Fprintf(w, "Hits:\t%d\n", d.Hits)
			fmt.Fprintf(w, "Misses:\t%d\n", d.Misses)
			fmt.Fprintf(w, "Hit rate:\t%.1f%%\n", d.HitRate)
			fmt.Fprintf(w, "Evictions:\t%d\n", d.Evictions)
			fmt.Fprintf(w, "Expirations:\t%d\n", d.Expirations)
			fmt.Fprintf(w, "Loads:\t%d (shared %d, failed %d)\n", d.Loads, d.SharedLoads, d.LoadErrors)
			if d.LastSweep != nil {
				fmt.Fprintf(w, "Last sweep:\t%s\n", d.LastSweep.Format(time.RFC3339))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if showKeys {
				for _, k := range d.Keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			}
			return nil
		},
	}
	statsCmd.Flags().BoolVar(&showKeys, "keys", false, "also print cached keys, oldest first")

	clearCmd := &cobra.Command{
		Use:   "clear [name]",
		Short: "Clear one cache, or every cache when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(opts)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			res, err := c.clearCache(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	cmd.AddCommand(listCmd, statsCmd, clearCmd)
	return cmd
}

func maxEntries(n int) string {
	if n <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", n)
}

func ttl(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}
