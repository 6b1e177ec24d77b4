package k8s

import (
	"context"
	"fmt"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// NodeStatus is one row of the node summary.
type NodeStatus struct {
	Name           string
	Ready          bool
	ControlPlane   bool
	InternalIP     string
	KubeletVersion string
}

// ClusterSummary is what `kubectl cluster-info`, `get nodes` and
// `get pods -A` would have shown after installation.
type ClusterSummary struct {
	ServerVersion string
	Nodes         []NodeStatus
	Pods          int
	RunningPods   int
}

// ReadyNodes returns the number of Ready nodes.
func (s *ClusterSummary) ReadyNodes() int {
	n := 0
	for _, node := range s.Nodes {
		if node.Ready {
			n++
		}
	}
	return n
}

// NewClientset creates a clientset from a kubeconfig file.
func NewClientset(kubeconfigPath string) (kubernetes.Interface, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return clientset, nil
}

// Verify collects the server version, node readiness and pod counts.
func Verify(ctx context.Context, client kubernetes.Interface) (*ClusterSummary, error) {
	version, err := client.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get server version: %w", err)
	}

	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	pods, err := client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	summary := &ClusterSummary{
		ServerVersion: version.GitVersion,
		Nodes:         make([]NodeStatus, 0, len(nodes.Items)),
		Pods:          len(pods.Items),
	}
	for i := range nodes.Items {
		summary.Nodes = append(summary.Nodes, nodeStatus(&nodes.Items[i]))
	}
	sort.Slice(summary.Nodes, func(i, j int) bool { return summary.Nodes[i].Name < summary.Nodes[j].Name })

	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodRunning {
			summary.RunningPods++
		}
	}

	return summary, nil
}

// WaitForNodesReady polls until at least expected nodes are registered and
// all of them report Ready, or the timeout expires.
func WaitForNodesReady(ctx context.Context, client kubernetes.Interface, expected int, interval, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return false, nil
		}
		if len(nodes.Items) < expected {
			return false, nil
		}
		for i := range nodes.Items {
			if !isNodeReady(&nodes.Items[i]) {
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("nodes not ready after %v: %w", timeout, err)
	}
	return nil
}

func nodeStatus(node *corev1.Node) NodeStatus {
	status := NodeStatus{
		Name:           node.Name,
		Ready:          isNodeReady(node),
		KubeletVersion: node.Status.NodeInfo.KubeletVersion,
	}
	if _, ok := node.Labels["node-role.kubernetes.io/control-plane"]; ok {
		status.ControlPlane = true
	}
	for _, addr := range node.Status.Addresses {
		if addr.Type == corev1.NodeInternalIP {
			status.InternalIP = addr.Address
			break
		}
	}
	return status
}

func isNodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
