package topology

import (
	"fmt"
	"net/netip"
)

// Role identifies what a node runs.
type Role string

const (
	// RoleControlPlane nodes run the API server and the rest of the control plane.
	RoleControlPlane Role = "control-plane"
	// RoleWorker nodes run workloads only.
	RoleWorker Role = "worker"
)

// Node is a single provisioned host.
type Node struct {
	Role           Role
	PrivateAddress netip.Addr
	PublicAddress  netip.Addr
}

// Subnet returns the network containing the node's private address.
func (n Node) Subnet(prefixLen int) (netip.Prefix, error) {
	return SubnetOf(n.PrivateAddress, prefixLen)
}

// Topology holds the nodes of one cluster in provisioning order.
// Only the first control-plane node is used when building the inventory.
type Topology struct {
	ControlPlanes []Node
	Workers       []Node
}

// Primary returns the first control-plane node.
func (t *Topology) Primary() Node {
	return t.ControlPlanes[0]
}

// Nodes returns the primary control-plane node followed by all workers.
// This is the set of hosts that end up in the inventory.
func (t *Topology) Nodes() []Node {
	nodes := make([]Node, 0, 1+len(t.Workers))
	nodes = append(nodes, t.Primary())
	return append(nodes, t.Workers...)
}

// Route is a static route to another private subnet.
type Route struct {
	To  netip.Prefix
	Via netip.Addr
}

// String renders the route in `ip route` notation.
func (r Route) String() string {
	return fmt.Sprintf("%s via %s", r.To, r.Via)
}

// MarshalYAML renders the route as {to, via} with string values.
func (r Route) MarshalYAML() (interface{}, error) {
	return struct {
		To  string `yaml:"to"`
		Via string `yaml:"via"`
	}{To: r.To.String(), Via: r.Via.String()}, nil
}
