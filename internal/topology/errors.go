package topology

import "fmt"

// MissingFieldError reports a required field absent from provisioning output.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("provisioning output is missing required field %q", e.Field)
}

// EmptyListError reports an address list that must contain at least one entry.
type EmptyListError struct {
	Field string
}

func (e *EmptyListError) Error() string {
	return fmt.Sprintf("provisioning output field %q must not be empty", e.Field)
}

// LengthMismatchError reports private and public address lists of different length.
type LengthMismatchError struct {
	Role         Role
	PrivateCount int
	PublicCount  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s nodes: %d private addresses but %d public addresses",
		e.Role, e.PrivateCount, e.PublicCount)
}

// InvalidAddressError reports an entry that is not an IPv4 address.
type InvalidAddressError struct {
	Field string
	Index int
	Value string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("%s[%d]: %q is not a valid IPv4 address", e.Field, e.Index, e.Value)
}
