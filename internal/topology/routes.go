package topology

import (
	"fmt"
	"net/netip"
	"slices"
)

// DefaultPrefixLength is the subnet size assumed for every private address.
const DefaultPrefixLength = 24

// RouteTable holds the routes of every inventory node, indexed like [Topology.Nodes].
type RouteTable struct {
	// Subnets lists the distinct private subnets in ascending order.
	Subnets []netip.Prefix
	// NodeSubnets[i] is the subnet of node i.
	NodeSubnets []netip.Prefix
	// Routes[i] is the route list of node i. Never nil.
	Routes [][]Route
}

// ForNode returns the subnet and route list of the node at index i.
func (rt RouteTable) ForNode(i int) (netip.Prefix, []Route) {
	return rt.NodeSubnets[i], rt.Routes[i]
}

// SubnetOf masks addr to prefixLen bits.
func SubnetOf(addr netip.Addr, prefixLen int) (netip.Prefix, error) {
	if err := validatePrefixLength(prefixLen); err != nil {
		return netip.Prefix{}, err
	}
	prefix, err := addr.Prefix(prefixLen)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("failed to compute subnet of %s: %w", addr, err)
	}
	return prefix, nil
}

// Gateway returns the first usable host address of subnet.
func Gateway(subnet netip.Prefix) netip.Addr {
	return subnet.Masked().Addr().Next()
}

// DeriveRoutes computes, for every node in t.Nodes(), one route to each
// private subnet other than its own. Subnets are sorted by network address so
// the result is identical across runs for the same input.
func DeriveRoutes(t *Topology, prefixLen int) (RouteTable, error) {
	if err := validatePrefixLength(prefixLen); err != nil {
		return RouteTable{}, err
	}

	nodes := t.Nodes()
	table := RouteTable{
		NodeSubnets: make([]netip.Prefix, len(nodes)),
		Routes:      make([][]Route, len(nodes)),
	}

	// Every control-plane address takes part in subnet discovery, even the
	// ones that do not make it into the inventory.
	all := make([]netip.Addr, 0, len(t.ControlPlanes)+len(t.Workers))
	for _, n := range t.ControlPlanes {
		all = append(all, n.PrivateAddress)
	}
	for _, n := range t.Workers {
		all = append(all, n.PrivateAddress)
	}

	seen := make(map[netip.Prefix]struct{})
	for _, addr := range all {
		subnet, err := SubnetOf(addr, prefixLen)
		if err != nil {
			return RouteTable{}, err
		}
		if _, ok := seen[subnet]; ok {
			continue
		}
		seen[subnet] = struct{}{}
		table.Subnets = append(table.Subnets, subnet)
	}
	slices.SortFunc(table.Subnets, comparePrefixes)

	for i, n := range nodes {
		own, err := n.Subnet(prefixLen)
		if err != nil {
			return RouteTable{}, err
		}
		table.NodeSubnets[i] = own

		routes := make([]Route, 0, len(table.Subnets))
		for _, subnet := range table.Subnets {
			if subnet == own {
				continue
			}
			routes = append(routes, Route{To: subnet, Via: Gateway(subnet)})
		}
		table.Routes[i] = routes
	}

	return table, nil
}

func comparePrefixes(a, b netip.Prefix) int {
	if c := a.Addr().Compare(b.Addr()); c != 0 {
		return c
	}
	return a.Bits() - b.Bits()
}

// validatePrefixLength rejects lengths that leave no usable host after the gateway.
func validatePrefixLength(prefixLen int) error {
	if prefixLen < 1 || prefixLen > 30 {
		return fmt.Errorf("subnet prefix length must be between 1 and 30, got %d", prefixLen)
	}
	return nil
}
