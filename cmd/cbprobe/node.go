package main

import (
	"github.com/spf13/cobra"

	"github.com/danpilch/cbprobe/pkg/checks"
	"github.com/danpilch/cbprobe/pkg/config"
	"github.com/danpilch/cbprobe/pkg/couchbase"
)

func (a *app) nodeCmd() *cobra.Command {
	var (
		conn connOptions
		path string
	)

	cmd := &cobra.Command{
		Use:   "node <host>",
		Short: "Checks the status of a Couchbase node to ensure it is working properly",
		Long: `Checks that the node is present in the cluster node list, reports
status "healthy" and has clusterMembership "active". Memory, swap and CPU
counters are emitted as performance data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := args[0]
			return a.execute(cmd, host, conn, func(cfg config.Config) (checks.Check, error) {
				c := checks.NewNodeCheck(host, cfg.Port)
				c.Path = path
				return c, nil
			})
		},
	}

	addConnFlags(cmd, &conn)
	cmd.Flags().StringVar(&path, "url", couchbase.NodesPath, "The path of the HTTP REST API to access the node stats.")
	return cmd
}
