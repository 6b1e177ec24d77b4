// Package storage reads object-storage credentials from a second Terraform
// output, used when the cluster is given a bucket for backups or registries.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/imamik/kspray/internal/topology"
)

// Terraform output names read by Parse.
const (
	FieldAccessKey = "s3_access_key"
	FieldSecretKey = "s3_secret_key"
	FieldBucket    = "s3_bucket"
	FieldEndpoint  = "s3_endpoint"
	FieldRegion    = "s3_region"
)

// DefaultRegion is used when the output carries no region.
const DefaultRegion = "us-east-1"

// Credentials identify an S3-compatible bucket.
type Credentials struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Endpoint  string
	Region    string
}

// ParseFile reads a Terraform output document from disk and extracts the credentials.
func ParseFile(path string) (*Credentials, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage output: %w", err)
	}
	return Parse(data)
}

// Parse extracts the credentials from a Terraform output document.
// Access key, secret key and bucket are required; endpoint and region are optional.
func Parse(data []byte) (*Credentials, error) {
	outputs, err := topology.DecodeOutputs(data)
	if err != nil {
		return nil, err
	}

	creds := &Credentials{}
	required := []struct {
		field string
		dst   *string
	}{
		{FieldAccessKey, &creds.AccessKey},
		{FieldSecretKey, &creds.SecretKey},
		{FieldBucket, &creds.Bucket},
	}
	for _, r := range required {
		v, ok, err := stringValue(outputs, r.field)
		if err != nil {
			return nil, err
		}
		if !ok || v == "" {
			return nil, &topology.MissingFieldError{Field: r.field}
		}
		*r.dst = v
	}

	if creds.Endpoint, _, err = stringValue(outputs, FieldEndpoint); err != nil {
		return nil, err
	}
	if creds.Region, _, err = stringValue(outputs, FieldRegion); err != nil {
		return nil, err
	}
	if creds.Region == "" {
		creds.Region = DefaultRegion
	}

	return creds, nil
}

func stringValue(outputs map[string]json.RawMessage, field string) (string, bool, error) {
	raw, ok := outputs[field]
	if !ok || string(raw) == "null" {
		return "", false, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, fmt.Errorf("field %q must be a string: %w", field, err)
	}
	return v, true, nil
}
