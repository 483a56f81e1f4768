package main

import (
	"github.com/spf13/cobra"

	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/config"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

func (a *app) clusterCmd() *cobra.Command {
	var (
		conn connOptions
		path string
	)

	cmd := &cobra.Command{
		Use:   "cluster <host>",
		Short: "Checks the status of a Couchbase cluster to ensure it is balanced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, args[0], conn, func(config.Config) (checks.Check, error) {
				c := checks.NewClusterCheck()
				c.Path = path
				return c, nil
			})
		},
	}

	addConnFlags(cmd, &conn)
	cmd.Flags().StringVar(&path, "url", couchbase.ClusterPath, "The path of the HTTP REST API to access the cluster stats.")
	return cmd
}
