package ifupdownconfig

// Method is the configuration method of the iface stanza. The method
// vocabulary is open: the well-known methods have their constants and
// any other method name (e.g., ppp, tunnel, wvdial) is kept verbatim.
// The empty method means that the stanza does not specify it.
type Method string

const (
	MethodNone     Method = ""
	MethodStatic   Method = "static"
	MethodDHCP     Method = "dhcp"
	MethodLoopback Method = "loopback"
	MethodManual   Method = "manual"
)

// Parses the configuration method. It never fails.
func ParseMethod(s string) Method {
	return Method(s)
}

// Checks if the method is not one of the well-known methods.
func (m Method) IsOther() bool {
	switch m {
	case MethodNone, MethodStatic, MethodDHCP, MethodLoopback, MethodManual:
		return false
	default:
		return true
	}
}

// Returns the method name as it appears in the interfaces file.
func (m Method) String() string {
	return string(m)
}
