// Package templatepatch pins the kubelet cluster DNS list in Kubespray
// control-plane templates to a single static address.
package templatepatch

import (
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// DefaultDNSAddress is Kubespray's default coredns service address.
	DefaultDNSAddress = "10.233.0.10"

	// DefaultTemplatesDir is relative to the Kubespray checkout.
	DefaultTemplatesDir = "roles/kubernetes/control-plane/templates"
)

var dnsLoop = regexp.MustCompile(`(?s)\{%\s*for\s+dns_address\s+in\s+kubelet_cluster_dns\s*%\}.*?\{%\s*endfor\s*%\}`)

// Result describes what happened to one template file.
type Result struct {
	Path         string
	Replacements int
}

// Patched reports whether the file was rewritten.
func (r Result) Patched() bool {
	return r.Replacements > 0
}

// Options controls PatchDir.
type Options struct {
	// Address replaces every loop block. Defaults to DefaultDNSAddress.
	Address string
	// DryRun reports matches without writing.
	DryRun bool
}

// PatchDir rewrites every regular file under dir. Results are returned in
// lexical walk order, one per file, including files left unchanged.
func PatchDir(dir string, opts Options) ([]Result, error) {
	address := opts.Address
	if address == "" {
		address = DefaultDNSAddress
	}
	if _, err := netip.ParseAddr(address); err != nil {
		return nil, fmt.Errorf("invalid DNS address %q: %w", address, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates path %s is not a directory", dir)
	}

	var results []Result
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		res, err := PatchFile(path, address, opts.DryRun)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, err
	}
	return results, nil
}

// PatchFile replaces the loop blocks in a single file with "- address".
func PatchFile(path, address string, dryRun bool) (Result, error) {
	res := Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return res, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	// #nosec G304 - path comes from walking the templates directory
	content, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}

	matches := dnsLoop.FindAllIndex(content, -1)
	res.Replacements = len(matches)
	if len(matches) == 0 || dryRun {
		return res, nil
	}

	replacement := []byte("- " + address)
	patched := dnsLoop.ReplaceAllLiteral(content, replacement)
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return res, nil
}

// Summary counts patched and unchanged files.
func Summary(results []Result) (patched, unchanged int) {
	for _, r := range results {
		if r.Patched() {
			patched++
		} else {
			unchanged++
		}
	}
	return patched, unchanged
}
