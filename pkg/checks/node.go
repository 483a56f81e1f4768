package checks

import (
	"context"
	"net"
	"strconv"

	"github.com/danpilch/cbprobe/pkg/check"
	"github.com/danpilch/cbprobe/pkg/couchbase"
	"github.com/danpilch/cbprobe/pkg/extract"
)

// NodeCheck verifies that one node is healthy and an active cluster member.
type NodeCheck struct {
	Host string
	Port int
	Path string
}

// NewNodeCheck creates a node check using the default nodes endpoint.
func NewNodeCheck(host string, port int) *NodeCheck {
	return &NodeCheck{Host: host, Port: port, Path: couchbase.NodesPath}
}

// Name returns the check name.
func (c *NodeCheck) Name() string {
	return "node"
}

// Hostname is the value the node reports in its hostname field.
func (c *NodeCheck) Hostname() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Run evaluates the node.
func (c *NodeCheck) Run(ctx context.Context, f couchbase.Fetcher) check.Result {
	r := check.NewResult(c.Name())

	path := c.Path
	if path == "" {
		path = couchbase.NodesPath
	}
	doc, err := f.Fetch(ctx, path)
	if err != nil {
		return Failure(r, err)
	}
	return c.Evaluate(r, doc)
}

// Evaluate applies the node rules to a decoded nodes document.
func (c *NodeCheck) Evaluate(r check.Result, doc any) check.Result {
	node, ok := extract.FindObject(doc, extract.ParsePath("nodes"), "hostname", c.Hostname())
	if !ok {
		return r.Add(check.Critical, "Node not found.")
	}

	if status, _ := node["status"].(string); status != "healthy" {
		r = r.Add(check.Critical, "Node unhealthy. status = %s", describe(node["status"]))
	}
	if membership, _ := node["clusterMembership"].(string); membership != "active" {
		r = r.Add(check.Critical, "Node membership invalid. clusterMembership = %s", describe(node["clusterMembership"]))
	}

	interesting, ok := extract.Fields(node, extract.ParsePath("interestingStats"), "")
	if !ok {
		r = r.Add(check.Warning, "Node interestingStats not found.")
	}
	system, ok := extract.Fields(node, extract.ParsePath("systemStats"), "")
	if !ok {
		r = r.Add(check.Warning, "Node systemStats not found.")
	}

	if memTotal, ok := extract.Value(system, "mem_total"); ok {
		interesting = extract.BoundMax(interesting, "mem_used", memTotal)
		system = extract.BoundMax(system, "mem_free", memTotal)
	}
	if swapTotal, ok := extract.Value(system, "swap_total"); ok {
		system = extract.BoundMax(system, "swap_used", swapTotal)
	}
	system = extract.BoundMax(system, "cpu_utilization_rate", 100)

	return r.AddPerf(interesting...).AddPerf(system...)
}

// describe renders a JSON scalar for a message, showing absence explicitly.
func describe(v any) string {
	switch s := v.(type) {
	case nil:
		return "undefined"
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return "invalid"
	}
}
