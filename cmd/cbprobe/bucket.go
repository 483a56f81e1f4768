package main

import (
	"github.com/spf13/cobra"

	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/config"
)

func (a *app) bucketCmd() *cobra.Command {
	var (
		conn          connOptions
		warningQuota  string
		criticalQuota string
	)

	cmd := &cobra.Command{
		Use:   "bucket <host> <bucket>",
		Short: "Checks the quota usage and derived statistics of a Couchbase bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, args[0], conn, func(cfg config.Config) (checks.Check, error) {
				c := checks.NewBucketCheck(args[1])
				c.WarningQuota = cfg.Bucket.WarningQuota
				c.CriticalQuota = cfg.Bucket.CriticalQuota
				c.Stats = cfg.Bucket.Stats
				if cmd.Flags().Changed("warning-quota") {
					c.WarningQuota = warningQuota
				}
				if cmd.Flags().Changed("critical-quota") {
					c.CriticalQuota = criticalQuota
				}
				return c, nil
			})
		},
	}

	addConnFlags(cmd, &conn)
	f := cmd.Flags()
	f.StringVar(&warningQuota, "warning-quota", checks.DefaultWarningQuota, "Threshold on basicStats.quotaPercentUsed that raises a WARNING.")
	f.StringVar(&criticalQuota, "critical-quota", checks.DefaultCriticalQuota, "Threshold on basicStats.quotaPercentUsed that raises a CRITICAL.")
	return cmd
}
