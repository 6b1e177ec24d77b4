package topology

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
)

// Terraform output names read by Parse.
const (
	FieldPrivateControlPlane = "private_master_ips"
	FieldPublicControlPlane  = "external_master_ips"
	FieldPrivateWorker       = "private_worker_ips"
	FieldPublicWorker        = "external_worker_ips"
)

// outputValue mirrors one entry of `terraform output -json`.
type outputValue struct {
	Value *json.RawMessage `json:"value"`
}

// ParseFile reads a Terraform output document from disk and extracts the topology.
func ParseFile(path string) (*Topology, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provisioning output: %w", err)
	}
	return Parse(data)
}

// Parse extracts the cluster topology from a Terraform output document.
//
// All four address fields are required. The control-plane lists must hold at
// least one address; worker lists may be empty. Private and public addresses
// are paired by position.
func Parse(data []byte) (*Topology, error) {
	outputs, err := DecodeOutputs(data)
	if err != nil {
		return nil, err
	}

	lists := make(map[string][]netip.Addr, 4)
	for _, field := range []string{
		FieldPrivateControlPlane,
		FieldPublicControlPlane,
		FieldPrivateWorker,
		FieldPublicWorker,
	} {
		addrs, err := addressList(outputs, field)
		if err != nil {
			return nil, err
		}
		lists[field] = addrs
	}

	for _, field := range []string{FieldPrivateControlPlane, FieldPublicControlPlane} {
		if len(lists[field]) == 0 {
			return nil, &EmptyListError{Field: field}
		}
	}

	controlPlanes, err := pair(RoleControlPlane, lists[FieldPrivateControlPlane], lists[FieldPublicControlPlane])
	if err != nil {
		return nil, err
	}
	workers, err := pair(RoleWorker, lists[FieldPrivateWorker], lists[FieldPublicWorker])
	if err != nil {
		return nil, err
	}

	return &Topology{
		ControlPlanes: controlPlanes,
		Workers:       workers,
	}, nil
}

// DecodeOutputs splits a Terraform output document into its named values.
// Entries without a "value" key are dropped so callers see them as missing.
func DecodeOutputs(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]outputValue
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode provisioning output: %w", err)
	}

	outputs := make(map[string]json.RawMessage, len(raw))
	for name, out := range raw {
		if out.Value == nil {
			continue
		}
		outputs[name] = *out.Value
	}
	return outputs, nil
}

func addressList(outputs map[string]json.RawMessage, field string) ([]netip.Addr, error) {
	raw, ok := outputs[field]
	if !ok || string(raw) == "null" {
		return nil, &MissingFieldError{Field: field}
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("field %q must be a list of address strings: %w", field, err)
	}

	addrs := make([]netip.Addr, 0, len(values))
	for i, v := range values {
		addr, err := netip.ParseAddr(v)
		if err != nil || !addr.Is4() {
			return nil, &InvalidAddressError{Field: field, Index: i, Value: v}
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

func pair(role Role, private, public []netip.Addr) ([]Node, error) {
	if len(private) != len(public) {
		return nil, &LengthMismatchError{
			Role:         role,
			PrivateCount: len(private),
			PublicCount:  len(public),
		}
	}

	nodes := make([]Node, len(private))
	for i := range private {
		nodes[i] = Node{
			Role:           role,
			PrivateAddress: private[i],
			PublicAddress:  public[i],
		}
	}
	return nodes, nil
}
