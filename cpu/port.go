package cpu

// PORT_UNMAPPED is the value read from a port nothing answers on.
const PORT_UNMAPPED = 0x01

// Port is the I/O bridge called synchronously by IN and OUT.
type Port interface {
	Output(port uint8, value uint8)
	Input(port uint8) uint8
}

// NullPort discards output and reads PORT_UNMAPPED from every port.
type NullPort struct{}

var _ Port = NullPort{}

func (NullPort) Output(port uint8, value uint8) {}

func (NullPort) Input(port uint8) uint8 {
	return PORT_UNMAPPED
}
