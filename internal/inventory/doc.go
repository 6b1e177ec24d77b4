// Package inventory assembles the Kubespray Ansible inventory from a cluster
// topology and writes it, together with the group_vars fragments, to disk.
//
// The document layout is fixed:
//
//	all:
//	  hosts:    every host, flat
//	  vars:     cluster-wide settings
//	  children:
//	    kube_control_plane, kube_node, etcd, k8s_cluster, calico_rr
//
// A host listed in a child group shares the same *Host value as its entry in
// all.hosts, so the two can never diverge. Output is byte-for-byte stable for
// the same input.
package inventory
