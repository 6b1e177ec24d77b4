// Package s3 provides a client for the S3-compatible bucket handed to the
// cluster by the storage Terraform output.
//
// kspray uses it to check that the bucket is reachable with the given
// credentials before the playbooks run, and to keep a copy of the generated
// inventory next to the cluster's other artifacts.
package s3
