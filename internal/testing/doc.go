// Package testing provides test utilities, builders, and fixtures for unit tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for run configurations rooted in a temp directory
//   - Fixtures: Terraform output documents and an admin kubeconfig
//   - MockRunner: testify mock of command.Runner
//
// Usage:
//
//	cfg := testing.NewConfigBuilder(t.TempDir()).
//	    WithClusterName("test").
//	    WithTunnel(keyPath).
//	    Build()
package testing
