package main

import (
	"github.com/spf13/cobra"

	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/config"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

func (a *app) bucketStatCmd() *cobra.Command {
	var (
		conn     connOptions
		warning  string
		critical string
		zoom     string
	)

	cmd := &cobra.Command{
		Use:   "bucket-stat <host> <bucket> <stat>",
		Short: "Checks a single statistic of a Couchbase bucket against thresholds",
		Long: `Summarises the samples of one bucket statistic over the selected zoom
window. The mean is reported as performance data along with the observed
minimum and maximum, and compared against the warning and critical thresholds.

Thresholds take the form <op><number> where op is one of >=, <=, >, < or =.`,
		Example: `  cbprobe bucket-stat db1 default cmd_get -w ">1000" -c ">5000" -z hour`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := couchbase.ParseZoom(zoom)
			if err != nil {
				return err
			}
			return a.execute(cmd, args[0], conn, func(config.Config) (checks.Check, error) {
				c := checks.NewBucketStatCheck(args[1], args[2])
				c.Zoom = z
				c.Rule.Warning = warning
				c.Rule.Critical = critical
				return c, nil
			})
		},
	}

	addConnFlags(cmd, &conn)
	f := cmd.Flags()
	f.StringVarP(&warning, "warning", "w", "", "Threshold on the mean of the stat that raises a WARNING.")
	f.StringVarP(&critical, "critical", "c", "", "Threshold on the mean of the stat that raises a CRITICAL.")
	f.StringVarP(&zoom, "zoom", "z", "", "Sampling window: minute, hour, day, week, month or year.")
	return cmd
}
