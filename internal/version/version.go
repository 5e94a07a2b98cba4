// ABOUTME: Build identity constants
// ABOUTME: Reported to companion apps during the handshake
package version

const (
	Product      = "DMuffler"
	Manufacturer = "DMuffler Project"
	Version      = "0.1.0"
)
