package logging

// Standard keys for consistent logging across the run.
const (
	// KeyStep is the pipeline step name.
	KeyStep = "step"

	// KeyIndex is the zero-based position of a step.
	KeyIndex = "index"

	// KeyDuration is the duration of a step.
	KeyDuration = "duration"

	// KeyPath is a file written or read.
	KeyPath = "path"

	// KeyHost is a node address.
	KeyHost = "host"

	// KeyPlaybook is the playbook being run.
	KeyPlaybook = "playbook"

	// KeyCommand is an external command line.
	KeyCommand = "command"

	// KeyBucket is the object-storage bucket.
	KeyBucket = "bucket"
)
