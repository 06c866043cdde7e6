package ifupdownconfig

import "github.com/pkg/errors"

// Family is the address family of the iface stanza. The empty family
// means that the stanza does not specify it.
type Family string

const (
	FamilyNone  Family = ""
	FamilyInet  Family = "inet"
	FamilyInet6 Family = "inet6"
	FamilyIPX   Family = "ipx"
	FamilyCAN   Family = "can"
)

// Parses the address family. It returns an error for the values other
// than inet, inet6, ipx and can.
func ParseFamily(s string) (Family, error) {
	switch family := Family(s); family {
	case FamilyInet, FamilyInet6, FamilyIPX, FamilyCAN:
		return family, nil
	default:
		return FamilyNone, errors.Errorf("unsupported address family '%s'", s)
	}
}

// Returns the family name as it appears in the interfaces file.
func (f Family) String() string {
	return string(f)
}
