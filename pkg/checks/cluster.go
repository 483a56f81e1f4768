package checks

import (
	"context"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
	"github.com/danpilch/cbprobe/pkg/extract"
)

// ClusterCheck verifies cluster balance and reports storage totals.
type ClusterCheck struct {
	Path string
}

// NewClusterCheck creates a cluster check using the default pool endpoint.
func NewClusterCheck() *ClusterCheck {
	return &ClusterCheck{Path: couchbase.ClusterPath}
}

// Name returns the check name.
func (c *ClusterCheck) Name() string {
	return "cluster"
}

// Run evaluates the cluster.
func (c *ClusterCheck) Run(ctx context.Context, f couchbase.Fetcher) check.Result {
	r := check.NewResult(c.Name())

	path := c.Path
	if path == "" {
		path = couchbase.ClusterPath
	}
	doc, err := f.Fetch(ctx, path)
	if err != nil {
		return Failure(r, err)
	}
	return c.Evaluate(r, doc)
}

// Evaluate applies the cluster rules to a decoded pool document.
func (c *ClusterCheck) Evaluate(r check.Result, doc any) check.Result {
	if balanced, _ := extract.Bool(doc, extract.ParsePath("balanced")); !balanced {
		r = r.Add(check.Critical, "Cluster is not balanced.")
	}

	ram, ok := extract.Fields(doc, extract.ParsePath("storageTotals.ram"), "ram")
	if !ok {
		r = r.Add(check.Warning, "Cluster storageTotals.ram not found.")
	}
	hdd, ok := extract.Fields(doc, extract.ParsePath("storageTotals.hdd"), "hdd")
	if !ok {
		r = r.Add(check.Warning, "Cluster storageTotals.hdd not found.")
	}

	bounds := []struct{ sample, bound string }{
		{"ramUsed", "ramTotal"},
		{"ramUsedByData", "ramTotal"},
		{"ramQuotaUsed", "ramQuotaTotal"},
		{"ramQuotaUsedPerNode", "ramQuotaTotalPerNode"},
	}
	for _, b := range bounds {
		if v, ok := extract.Value(ram, b.bound); ok {
			ram = extract.BoundMax(ram, b.sample, v)
		}
	}
	if total, ok := extract.Value(hdd, "hddTotal"); ok {
		for _, label := range []string{"hddUsed", "hddUsedByData", "hddFree"} {
			hdd = extract.BoundMax(hdd, label, total)
		}
	}

	r = r.AddPerf(ram...).AddPerf(hdd...)

	spare, ok := SpareNodes(ram)
	if !ok {
		return r.Add(check.Warning, "Cannot compute spare nodes.")
	}
	return r.AddPerf(check.PerfData{Label: "spareNodes", Value: spare})
}

// SpareNodes estimates how many more nodes' worth of RAM quota is unallocated:
// (ramQuotaTotal - ramQuotaUsed) / ramQuotaTotalPerNode.
func SpareNodes(ram []check.PerfData) (float64, bool) {
	total, ok := extract.Value(ram, "ramQuotaTotal")
	if !ok {
		return 0, false
	}
	used, ok := extract.Value(ram, "ramQuotaUsed")
	if !ok {
		return 0, false
	}
	perNode, ok := extract.Value(ram, "ramQuotaTotalPerNode")
	if !ok || perNode == 0 {
		return 0, false
	}
	return (total - used) / perNode, true
}
