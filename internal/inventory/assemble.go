package inventory

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/imamik/kspray/internal/topology"
)

// APIAddress selects which address of the primary control-plane node the
// cluster API endpoint is published on.
type APIAddress string

const (
	// APIAddressPrivate publishes the API on the private network address.
	APIAddressPrivate APIAddress = "private"
	// APIAddressPublic publishes the API on the public address.
	APIAddressPublic APIAddress = "public"
)

// Options are the fixed settings applied while assembling the inventory.
type Options struct {
	SSHUser                 string
	APIPort                 int
	NetworkPlugin           string
	PythonInterpreter       string
	APIAddress              APIAddress
	KubeadmInitRetryTimeout int
	// SSHCommonArgs is set as ansible_ssh_common_args on every host when non-empty.
	// The primary control-plane host always carries the key, empty or not.
	SSHCommonArgs string
	ExtraVars     map[string]interface{}
}

func (o Options) validate() error {
	var errs []error
	if o.SSHUser == "" {
		errs = append(errs, errors.New("ssh user is required"))
	}
	if o.APIPort < 1 || o.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("api port %d is out of range", o.APIPort))
	}
	if o.NetworkPlugin == "" {
		errs = append(errs, errors.New("network plugin is required"))
	}
	switch o.APIAddress {
	case "", APIAddressPrivate, APIAddressPublic:
	default:
		errs = append(errs, fmt.Errorf("api address must be %q or %q, got %q", APIAddressPrivate, APIAddressPublic, o.APIAddress))
	}
	for key := range o.ExtraVars {
		if _, ok := reservedVarKeys[key]; ok {
			errs = append(errs, fmt.Errorf("extra var %q would override a generated variable", key))
		}
	}
	return errors.Join(errs...)
}

// Assemble builds the inventory document for t.
//
// routes must come from [topology.DeriveRoutes] on the same topology: entry 0
// belongs to the primary control-plane node, entries 1..N to the workers in
// input order.
func Assemble(t *topology.Topology, routes topology.RouteTable, opts Options) (*Document, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid inventory options: %w", err)
	}
	if len(t.ControlPlanes) == 0 {
		return nil, &topology.EmptyListError{Field: topology.FieldPrivateControlPlane}
	}
	if want := 1 + len(t.Workers); len(routes.Routes) != want || len(routes.NodeSubnets) != want {
		return nil, fmt.Errorf("route table covers %d nodes, topology has %d", len(routes.Routes), want)
	}

	primary := t.Primary()
	apiAddress := primary.PrivateAddress.String()
	if opts.APIAddress == APIAddressPublic {
		apiAddress = primary.PublicAddress.String()
	}

	all := &Group{
		Hosts: NewHostMap(),
		Vars: &Vars{
			PythonInterpreter: opts.PythonInterpreter,
			NetworkPlugin:     opts.NetworkPlugin,
			Become:            true,
			APIServerPort:     opts.APIPort,
			PublicAPIIP:       primary.PublicAddress.String(),
			LoadBalancerAPIServer: LoadBalancerAPIServer{
				Address: apiAddress,
				Port:    opts.APIPort,
			},
			KubeadmConfigAPIFQDN:    apiAddress,
			ControlPlaneEndpoint:    net.JoinHostPort(apiAddress, strconv.Itoa(opts.APIPort)),
			KubeadmInitRetryTimeout: opts.KubeadmInitRetryTimeout,
			Extra:                   opts.ExtraVars,
		},
		Children: NewGroupMap(),
	}

	controlPlane := &Group{Hosts: NewHostMap()}
	workers := &Group{Hosts: NewHostMap()}
	etcd := &Group{Hosts: NewHostMap()}

	for i, n := range t.Nodes() {
		subnet, nodeRoutes := routes.ForNode(i)
		host := &Host{
			AnsibleHost:   n.PublicAddress.String(),
			IP:            n.PrivateAddress.String(),
			AccessIP:      n.PrivateAddress.String(),
			AnsibleUser:   opts.SSHUser,
			Routes:        nodeRoutes,
			Subnet:        subnet.String(),
		}
		if i == 0 || opts.SSHCommonArgs != "" {
			args := opts.SSHCommonArgs
			host.SSHCommonArgs = &args
		}
		if host.Routes == nil {
			host.Routes = []topology.Route{}
		}

		if i == 0 {
			controlPlane.Hosts.Set(ControlPlaneHostName, host)
			etcd.Hosts.Set(ControlPlaneHostName, host)
			all.Hosts.Set(ControlPlaneHostName, host)
			continue
		}

		name := WorkerHostName(i)
		workers.Hosts.Set(name, host)
		all.Hosts.Set(name, host)
	}

	cluster := &Group{Children: NewGroupMap()}
	cluster.Children.Set(GroupControlPlane, &Group{})
	cluster.Children.Set(GroupWorkers, &Group{})

	all.Children.Set(GroupControlPlane, controlPlane)
	all.Children.Set(GroupWorkers, workers)
	all.Children.Set(GroupEtcd, etcd)
	all.Children.Set(GroupCluster, cluster)
	if opts.NetworkPlugin == "calico" {
		all.Children.Set(GroupCalicoRR, &Group{Hosts: NewHostMap()})
	}

	return &Document{All: all}, nil
}

// Group returns the child group of all with the given name.
func (d *Document) Group(name string) (*Group, bool) {
	if name == GroupAll {
		return d.All, true
	}
	return d.All.Children.Get(name)
}

// Host returns the host from the flat all.hosts map.
func (d *Document) Host(name string) (*Host, bool) {
	return d.All.Hosts.Get(name)
}
