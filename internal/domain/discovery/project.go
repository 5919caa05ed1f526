package discovery

// RemoteProject describes one repository hosted on the server as returned by
// the project listing. Instances only exist as streamed elements of a scan;
// they are never persisted.
type RemoteProject struct {
	// Name is the server-unique project name. It is the only field the
	// discovery core requires.
	Name string

	// Listing metadata carried along for consumers that want it.
	ID          string
	State       string
	Description string
}
