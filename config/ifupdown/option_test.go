package ifupdownconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Test that the well-known text options are parsed into the text options.
func TestParseTextOption(t *testing.T) {
	// Act
	option := ParseOption("address", "192.0.2.10/24")

	// Assert
	require.IsType(t, TextOption{}, option)
	require.Equal(t, OptionAddress, option.Kind())
	require.Equal(t, "address", option.Key())
	require.Equal(t, "192.0.2.10/24", option.Value())
	require.Equal(t, "192.0.2.10/24", option.(TextOption).Text())
	require.Equal(t, "address 192.0.2.10/24", option.String())
}

// Test that the numeric options are decoded and keep the original
// spelling.
func TestParseNumberOption(t *testing.T) {
	// Act
	mtu := ParseOption("mtu", "09000")
	access := ParseOption("bridge-access", "1347")

	// Assert
	require.IsType(t, NumberOption{}, mtu)
	require.EqualValues(t, 9000, mtu.(NumberOption).Number())
	require.Equal(t, "09000", mtu.Value())

	require.IsType(t, NumberOption{}, access)
	require.Equal(t, OptionBridgeAccess, access.Kind())
	require.EqualValues(t, 1347, access.(NumberOption).Number())
}

// Test that the numeric option with a value out of range or not being
// a number falls back to the other option.
func TestParseNumberOptionFallback(t *testing.T) {
	for _, value := range []string{"jumbo", "70000", "-1", ""} {
		t.Run(value, func(t *testing.T) {
			// Act
			option := ParseOption("mtu", value)

			// Assert
			require.IsType(t, OtherOption{}, option)
			require.Equal(t, OptionOther, option.Kind())
			require.Equal(t, "mtu", option.Key())
			require.Equal(t, value, option.Value())
		})
	}
}

// Test that the flag options accept various spellings.
func TestParseFlagOption(t *testing.T) {
	testCases := map[string]bool{
		"yes":   true,
		"on":    true,
		"True":  true,
		"1":     true,
		"no":    false,
		"off":   false,
		"false": false,
		"0":     false,
	}
	for value, expected := range testCases {
		t.Run(value, func(t *testing.T) {
			// Act
			option := ParseOption("bridge-vlan-aware", value)

			// Assert
			require.IsType(t, FlagOption{}, option)
			require.Equal(t, expected, option.(FlagOption).Enabled())
			require.Equal(t, value, option.Value())
		})
	}

	require.IsType(t, OtherOption{}, ParseOption("bridge-vlan-aware", "maybe"))
}

// Test that the bridge ports are parsed into the list option.
func TestParseListOption(t *testing.T) {
	// Act
	option := ParseOption("bridge-ports", "eth0  eth1\teth2")

	// Assert
	require.IsType(t, ListOption{}, option)
	list := option.(ListOption)
	require.Equal(t, []string{"eth0", "eth1", "eth2"}, list.Items())
	require.Equal(t, "eth0  eth1\teth2", list.Value())

	// Modifying the returned items must not modify the option.
	list.Items()[0] = "eth9"
	require.Equal(t, "eth0", list.Items()[0])
}

// Test that an unknown option is kept verbatim.
func TestParseOptionUnknownKey(t *testing.T) {
	// Act
	option := ParseOption("foo-bar", "baz")

	// Assert
	require.Equal(t, NewOtherOption("foo-bar", "baz"), option)
	require.Equal(t, OptionOther, option.Kind())
	require.Equal(t, "foo-bar baz", option.String())
}

// Test that the option without value is rendered without a trailing
// space.
func TestOptionWithoutValue(t *testing.T) {
	require.Equal(t, "no-auto-down", ParseOption("no-auto-down", "").String())
	require.Equal(t, "address", ParseOption("address", "").String())
}

// Test that the option constructors produce the canonical values.
func TestOptionConstructors(t *testing.T) {
	require.Equal(t, "address 192.0.2.1/24", NewAddress("192.0.2.1/24").String())
	require.Equal(t, "netmask 255.255.255.0", NewNetmask("255.255.255.0").String())
	require.Equal(t, "gateway 192.0.2.254", NewGateway("192.0.2.254").String())
	require.Equal(t, "hwaddress ether 00:11:22:33:44:55", NewHWAddress("ether 00:11:22:33:44:55").String())
	require.Equal(t, "dns-nameservers 192.0.2.53 192.0.2.54", NewDNSNameservers("192.0.2.53", "192.0.2.54").String())
	require.Equal(t, "post-up ip link set eth0 promisc on", NewHook(OptionPostUp, "ip link set eth0 promisc on").String())
	require.Equal(t, "mtu 1500", NewMTU(1500).String())
	require.Equal(t, "metric 100", NewMetric(100).String())
	require.Equal(t, "vlan-id 10", NewVLANID(10).String())
	require.Equal(t, "vlan-raw-device eth0", NewVLANRawDevice("eth0").String())
	require.Equal(t, "bridge-ports eth0 eth1", NewBridgePorts("eth0", "eth1").String())
	require.Equal(t, "bridge-access 1347", NewBridgeAccess(1347).String())
	require.Equal(t, "bridge-pvid 1", NewBridgePVID(1).String())
	require.Equal(t, "bridge-vids 100-154 199", NewBridgeVIDs("100-154 199").String())
	require.Equal(t, "bridge-vlan-aware yes", NewBridgeVLANAware(true).String())
	require.Equal(t, "bridge-vlan-aware no", NewBridgeVLANAware(false).String())
}

// Test that the constructed option and the parsed option carry the
// same payload.
func TestConstructedOptionMatchesParsed(t *testing.T) {
	// Arrange
	constructed := NewMTU(1500).(NumberOption)

	// Act
	parsed := ParseOption(constructed.Key(), constructed.Value()).(NumberOption)

	// Assert
	require.Equal(t, constructed.Kind(), parsed.Kind())
	require.Equal(t, constructed.Number(), parsed.Number())
	require.Equal(t, constructed.String(), parsed.String())
}
