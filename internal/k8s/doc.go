// Package k8s installs the cluster-admin kubeconfig produced by Kubespray
// and checks the installed cluster through client-go.
package k8s
