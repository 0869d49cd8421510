package backend

// Provider is one brightness protocol (DDC/CI, sysfs backlight, ...).
// Implementations are tried in fixed priority order with early success
// short-circuit; a returned error means "this protocol failed for this
// physical index", never a fatal condition.
type Provider interface {
	// Name identifies the protocol in logs ("ddc", "backlight").
	Name() string

	// List enumerates the monitor handles this protocol can currently see,
	// in the protocol's own physical order. The orderings of different
	// providers are independent and may disagree.
	List() ([]string, error)

	// Get reads the brightness percentage [0,100] for the handle at the
	// given physical index within this provider's own list.
	Get(physical int) (int, error)

	// Set writes the brightness percentage [0,100] for the handle at the
	// given physical index within this provider's own list.
	Set(physical int, value int) error
}

// PrimaryDetector reports the physical index of the OS primary display.
// Implementations fail closed: callers default to index 0 on error.
type PrimaryDetector interface {
	PrimaryIndex() (int, error)
}
