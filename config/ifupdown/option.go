package ifupdownconfig

import (
	"slices"
	"strconv"
	"strings"
)

// OptionKind identifies the well-known options of the iface stanza.
// The kind is the option name as it appears in the interfaces file.
type OptionKind string

// The well-known options. The options not listed here are represented
// by the OtherOption.
const (
	OptionOther                OptionKind = ""
	OptionAddress              OptionKind = "address"
	OptionNetmask              OptionKind = "netmask"
	OptionGateway              OptionKind = "gateway"
	OptionBroadcast            OptionKind = "broadcast"
	OptionNetwork              OptionKind = "network"
	OptionPointopoint          OptionKind = "pointopoint"
	OptionHWAddress            OptionKind = "hwaddress"
	OptionMedia                OptionKind = "media"
	OptionMTU                  OptionKind = "mtu"
	OptionMetric               OptionKind = "metric"
	OptionDNSNameservers       OptionKind = "dns-nameservers"
	OptionDNSSearch            OptionKind = "dns-search"
	OptionPreUp                OptionKind = "pre-up"
	OptionUp                   OptionKind = "up"
	OptionPostUp               OptionKind = "post-up"
	OptionDown                 OptionKind = "down"
	OptionPreDown              OptionKind = "pre-down"
	OptionPostDown             OptionKind = "post-down"
	OptionVRF                  OptionKind = "vrf"
	OptionVRFTable             OptionKind = "vrf-table"
	OptionVLANID               OptionKind = "vlan-id"
	OptionVLANRawDevice        OptionKind = "vlan-raw-device"
	OptionBridgePorts          OptionKind = "bridge-ports"
	OptionBridgeAccess         OptionKind = "bridge-access"
	OptionBridgePVID           OptionKind = "bridge-pvid"
	OptionBridgeVIDs           OptionKind = "bridge-vids"
	OptionBridgeVLANAware      OptionKind = "bridge-vlan-aware"
	OptionMstpctlBPDUGuard     OptionKind = "mstpctl-bpduguard"
	OptionMstpctlPortAdminEdge OptionKind = "mstpctl-portadminedge"
)

type optionClass int

const (
	optionClassText optionClass = iota
	optionClassNumber
	optionClassFlag
	optionClassList
)

type optionSpec struct {
	class   optionClass
	bitSize int
}

var wellKnownOptions = map[OptionKind]optionSpec{
	OptionAddress:              {class: optionClassText},
	OptionNetmask:              {class: optionClassText},
	OptionGateway:              {class: optionClassText},
	OptionBroadcast:            {class: optionClassText},
	OptionNetwork:              {class: optionClassText},
	OptionPointopoint:          {class: optionClassText},
	OptionHWAddress:            {class: optionClassText},
	OptionMedia:                {class: optionClassText},
	OptionMTU:                  {class: optionClassNumber, bitSize: 16},
	OptionMetric:               {class: optionClassNumber, bitSize: 32},
	OptionDNSNameservers:       {class: optionClassText},
	OptionDNSSearch:            {class: optionClassText},
	OptionPreUp:                {class: optionClassText},
	OptionUp:                   {class: optionClassText},
	OptionPostUp:               {class: optionClassText},
	OptionDown:                 {class: optionClassText},
	OptionPreDown:              {class: optionClassText},
	OptionPostDown:             {class: optionClassText},
	OptionVRF:                  {class: optionClassText},
	OptionVRFTable:             {class: optionClassText},
	OptionVLANID:               {class: optionClassNumber, bitSize: 16},
	OptionVLANRawDevice:        {class: optionClassText},
	OptionBridgePorts:          {class: optionClassList},
	OptionBridgeAccess:         {class: optionClassNumber, bitSize: 16},
	OptionBridgePVID:           {class: optionClassNumber, bitSize: 16},
	OptionBridgeVIDs:           {class: optionClassText},
	OptionBridgeVLANAware:      {class: optionClassFlag},
	OptionMstpctlBPDUGuard:     {class: optionClassFlag},
	OptionMstpctlPortAdminEdge: {class: optionClassFlag},
}

// Option is a single directive inside the iface stanza. It is one of
// TextOption, NumberOption, FlagOption, ListOption or OtherOption.
// The options are immutable values. Editing an option means replacing
// it in the interface.
type Option interface {
	// Returns the option kind or OptionOther.
	Kind() OptionKind
	// Returns the option name as it appears in the file.
	Key() string
	// Returns the option value as it appears in the file.
	Value() string
	// Returns the option line without indentation.
	String() string
	isOption()
}

var (
	_ Option = TextOption{}
	_ Option = NumberOption{}
	_ Option = FlagOption{}
	_ Option = ListOption{}
	_ Option = OtherOption{}
)

// Classifies the option by its key and decodes the value into the typed
// payload. The well-known option whose value can't be decoded (e.g.,
// "mtu jumbo") and any unknown option are returned as the OtherOption,
// so no option is ever dropped.
func ParseOption(key, value string) Option {
	kind := OptionKind(key)
	spec, ok := wellKnownOptions[kind]
	if !ok {
		return NewOtherOption(key, value)
	}
	switch spec.class {
	case optionClassNumber:
		number, err := strconv.ParseUint(value, 10, spec.bitSize)
		if err != nil {
			return NewOtherOption(key, value)
		}
		return NumberOption{kind: kind, number: number, text: value}
	case optionClassFlag:
		enabled, ok := parseFlag(value)
		if !ok {
			return NewOtherOption(key, value)
		}
		return FlagOption{kind: kind, enabled: enabled, text: value}
	case optionClassList:
		return ListOption{kind: kind, items: strings.Fields(value), text: value}
	default:
		return TextOption{kind: kind, text: value}
	}
}

func parseFlag(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "yes", "on", "true", "1":
		return true, true
	case "no", "off", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func formatOption(option Option) string {
	if value := option.Value(); value != "" {
		return option.Key() + " " + value
	}
	return option.Key()
}

// TextOption is a well-known option with a free-form text value, e.g.,
// an address, a netmask or a hook command.
type TextOption struct {
	kind OptionKind
	text string
}

func (o TextOption) Kind() OptionKind { return o.kind }
func (o TextOption) Key() string      { return string(o.kind) }
func (o TextOption) Value() string    { return o.text }
func (o TextOption) String() string   { return formatOption(o) }
func (TextOption) isOption()          {}

// Returns the option text.
func (o TextOption) Text() string {
	return o.text
}

// NumberOption is a well-known option with an unsigned integer value,
// e.g., MTU or VLAN ID.
type NumberOption struct {
	kind   OptionKind
	number uint64
	// The value as written in the parsed file. Empty for the options
	// created with constructors.
	text string
}

func (o NumberOption) Kind() OptionKind { return o.kind }
func (o NumberOption) Key() string      { return string(o.kind) }
func (o NumberOption) String() string   { return formatOption(o) }
func (NumberOption) isOption()          {}

// Returns the value in its original spelling or the decimal number.
func (o NumberOption) Value() string {
	if o.text != "" {
		return o.text
	}
	return strconv.FormatUint(o.number, 10)
}

// Returns the decoded number.
func (o NumberOption) Number() uint64 {
	return o.number
}

// FlagOption is a well-known option with a boolean value, e.g.,
// bridge-vlan-aware.
type FlagOption struct {
	kind    OptionKind
	enabled bool
	// The value as written in the parsed file (e.g., "on").
	text string
}

func (o FlagOption) Kind() OptionKind { return o.kind }
func (o FlagOption) Key() string      { return string(o.kind) }
func (o FlagOption) String() string   { return formatOption(o) }
func (FlagOption) isOption()          {}

// Returns the value in its original spelling or yes/no.
func (o FlagOption) Value() string {
	switch {
	case o.text != "":
		return o.text
	case o.enabled:
		return "yes"
	default:
		return "no"
	}
}

// Returns the decoded flag.
func (o FlagOption) Enabled() bool {
	return o.enabled
}

// ListOption is a well-known option holding a list of whitespace
// separated items, e.g., bridge-ports.
type ListOption struct {
	kind  OptionKind
	items []string
	text  string
}

func (o ListOption) Kind() OptionKind { return o.kind }
func (o ListOption) Key() string      { return string(o.kind) }
func (o ListOption) String() string   { return formatOption(o) }
func (ListOption) isOption()          {}

// Returns the value in its original spelling or the items separated with
// spaces.
func (o ListOption) Value() string {
	if o.text != "" {
		return o.text
	}
	return strings.Join(o.items, " ")
}

// Returns a copy of the list items.
func (o ListOption) Items() []string {
	return slices.Clone(o.items)
}

// OtherOption is any option the model does not special-case. It keeps
// the key and the value verbatim.
type OtherOption struct {
	key   string
	value string
}

// Creates an option that is kept verbatim regardless of its key.
func NewOtherOption(key, value string) OtherOption {
	return OtherOption{key: key, value: value}
}

func (o OtherOption) Kind() OptionKind { return OptionOther }
func (o OtherOption) Key() string      { return o.key }
func (o OtherOption) Value() string    { return o.value }
func (o OtherOption) String() string   { return formatOption(o) }
func (OtherOption) isOption()          {}

// Creates the address option. The address may include the prefix length.
func NewAddress(address string) Option {
	return TextOption{kind: OptionAddress, text: address}
}

// Creates the netmask option.
func NewNetmask(netmask string) Option {
	return TextOption{kind: OptionNetmask, text: netmask}
}

// Creates the gateway option.
func NewGateway(gateway string) Option {
	return TextOption{kind: OptionGateway, text: gateway}
}

// Creates the hwaddress option.
func NewHWAddress(hwAddress string) Option {
	return TextOption{kind: OptionHWAddress, text: hwAddress}
}

// Creates the dns-nameservers option.
func NewDNSNameservers(servers ...string) Option {
	return TextOption{kind: OptionDNSNameservers, text: strings.Join(servers, " ")}
}

// Creates a hook option (pre-up, up, post-up, down, pre-down, post-down)
// running the given command.
func NewHook(kind OptionKind, command string) Option {
	return TextOption{kind: kind, text: command}
}

// Creates the mtu option.
func NewMTU(mtu uint16) Option {
	return NumberOption{kind: OptionMTU, number: uint64(mtu)}
}

// Creates the metric option.
func NewMetric(metric uint32) Option {
	return NumberOption{kind: OptionMetric, number: uint64(metric)}
}

// Creates the vlan-id option.
func NewVLANID(id uint16) Option {
	return NumberOption{kind: OptionVLANID, number: uint64(id)}
}

// Creates the vlan-raw-device option.
func NewVLANRawDevice(device string) Option {
	return TextOption{kind: OptionVLANRawDevice, text: device}
}

// Creates the bridge-ports option.
func NewBridgePorts(ports ...string) Option {
	return ListOption{kind: OptionBridgePorts, items: slices.Clone(ports)}
}

// Creates the bridge-access option.
func NewBridgeAccess(vlan uint16) Option {
	return NumberOption{kind: OptionBridgeAccess, number: uint64(vlan)}
}

// Creates the bridge-pvid option.
func NewBridgePVID(vlan uint16) Option {
	return NumberOption{kind: OptionBridgePVID, number: uint64(vlan)}
}

// Creates the bridge-vids option, e.g., "100-154 199".
func NewBridgeVIDs(vids string) Option {
	return TextOption{kind: OptionBridgeVIDs, text: vids}
}

// Creates the bridge-vlan-aware option.
func NewBridgeVLANAware(enabled bool) Option {
	return FlagOption{kind: OptionBridgeVLANAware, enabled: enabled}
}
