// Package topology turns Terraform output into typed cluster nodes and derives
// the static routes each node needs to reach the other private subnets.
//
// [Parse] reads the provisioning JSON, [DeriveRoutes] computes the per-node
// route lists. Both are pure functions; nothing here touches the filesystem
// except [ParseFile].
package topology
