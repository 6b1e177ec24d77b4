package inventory

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/imamik/kspray/internal/topology"
)

// Group names understood by Kubespray.
const (
	GroupAll          = "all"
	GroupControlPlane = "kube_control_plane"
	GroupWorkers      = "kube_node"
	GroupEtcd         = "etcd"
	GroupCluster      = "k8s_cluster"
	GroupCalicoRR     = "calico_rr"
)

// ControlPlaneHostName is the inventory name of the primary control-plane node.
const ControlPlaneHostName = "master"

// WorkerHostName returns the inventory name of the i-th worker, 1-indexed.
func WorkerHostName(i int) string {
	return fmt.Sprintf("worker%d", i)
}

// Host holds the per-host connection and routing attributes.
type Host struct {
	AnsibleHost   string           `yaml:"ansible_host"`
	IP            string           `yaml:"ip"`
	AccessIP      string           `yaml:"access_ip"`
	AnsibleUser   string           `yaml:"ansible_user"`
	Routes        []topology.Route `yaml:"routes_to_add"`
	Subnet        string           `yaml:"subnet"`
	SSHCommonArgs *string          `yaml:"ansible_ssh_common_args,omitempty"`
}

// LoadBalancerAPIServer points Kubespray at the API server address.
type LoadBalancerAPIServer struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// Vars are applied to every host in the inventory.
type Vars struct {
	PythonInterpreter       string                `yaml:"ansible_python_interpreter"`
	NetworkPlugin           string                `yaml:"kube_network_plugin"`
	Become                  bool                  `yaml:"ansible_become"`
	APIServerPort           int                   `yaml:"api_server_port"`
	PublicAPIIP             string                `yaml:"public_api_ip"`
	LoadBalancerAPIServer   LoadBalancerAPIServer `yaml:"loadbalancer_apiserver"`
	KubeadmConfigAPIFQDN    string                `yaml:"kubeadm_config_api_fqdn"`
	ControlPlaneEndpoint    string                `yaml:"control_plane_endpoint"`
	KubeadmInitRetryTimeout int                   `yaml:"kubeadm_init_retry_timeout,omitempty"`

	// Extra holds user-supplied variables, emitted after the fixed ones in key order.
	Extra map[string]interface{} `yaml:",inline"`
}

// reservedVarKeys are the keys of the fixed Vars fields.
var reservedVarKeys = map[string]struct{}{
	"ansible_python_interpreter": {},
	"kube_network_plugin":        {},
	"ansible_become":             {},
	"api_server_port":            {},
	"public_api_ip":              {},
	"loadbalancer_apiserver":     {},
	"kubeadm_config_api_fqdn":    {},
	"control_plane_endpoint":     {},
	"kubeadm_init_retry_timeout": {},
}

// Group is a node of the inventory tree.
type Group struct {
	Hosts    *HostMap  `yaml:"hosts,omitempty"`
	Vars     *Vars     `yaml:"vars,omitempty"`
	Children *GroupMap `yaml:"children,omitempty"`
}

// Document is the complete inventory.
type Document struct {
	All *Group `yaml:"all"`
}

// HostMap is a host-name to host mapping that keeps insertion order.
type HostMap struct {
	names []string
	hosts map[string]*Host
}

// NewHostMap returns an empty HostMap. It serializes as {} rather than being omitted.
func NewHostMap() *HostMap {
	return &HostMap{hosts: make(map[string]*Host)}
}

// Set adds or replaces a host. Replacing keeps its position.
func (m *HostMap) Set(name string, h *Host) {
	if _, ok := m.hosts[name]; !ok {
		m.names = append(m.names, name)
	}
	m.hosts[name] = h
}

// Get returns the host stored under name.
func (m *HostMap) Get(name string) (*Host, bool) {
	h, ok := m.hosts[name]
	return h, ok
}

// Names returns host names in insertion order.
func (m *HostMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of hosts.
func (m *HostMap) Len() int {
	return len(m.names)
}

// MarshalYAML emits hosts in insertion order.
func (m *HostMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.names {
		if err := appendPair(node, name, m.hosts[name]); err != nil {
			return nil, fmt.Errorf("host %s: %w", name, err)
		}
	}
	return node, nil
}

// GroupMap is a group-name to group mapping that keeps insertion order.
type GroupMap struct {
	names  []string
	groups map[string]*Group
}

// NewGroupMap returns an empty GroupMap.
func NewGroupMap() *GroupMap {
	return &GroupMap{groups: make(map[string]*Group)}
}

// Set adds or replaces a child group.
func (m *GroupMap) Set(name string, g *Group) {
	if _, ok := m.groups[name]; !ok {
		m.names = append(m.names, name)
	}
	m.groups[name] = g
}

// Get returns the child group stored under name.
func (m *GroupMap) Get(name string) (*Group, bool) {
	g, ok := m.groups[name]
	return g, ok
}

// Names returns group names in insertion order.
func (m *GroupMap) Names() []string {
	return append([]string(nil), m.names...)
}

// MarshalYAML emits groups in insertion order.
func (m *GroupMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range m.names {
		if err := appendPair(node, name, m.groups[name]); err != nil {
			return nil, fmt.Errorf("group %s: %w", name, err)
		}
	}
	return node, nil
}

func appendPair(mapping *yaml.Node, key string, value interface{}) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return err
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&v,
	)
	return nil
}
