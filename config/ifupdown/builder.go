package ifupdownconfig

// InterfaceBuilder constructs the interface records with chained calls.
//
//	iface := NewInterfaceBuilder("eth0").
//		WithAuto(true).
//		WithFamily(FamilyInet).
//		WithMethod(MethodStatic).
//		WithOption(NewAddress("192.0.2.10/24")).
//		Build()
//	err := document.Upsert(iface)
//
// The builder only prepares the record. The document is changed with
// the Document.Upsert.
type InterfaceBuilder struct {
	iface *Interface
}

// Creates a builder of a new interface.
func NewInterfaceBuilder(name string) *InterfaceBuilder {
	return &InterfaceBuilder{
		iface: &Interface{Name: name},
	}
}

// Creates a builder initialized with a copy of the interface. The
// interface itself is not modified.
func (i *Interface) Edit() *InterfaceBuilder {
	return &InterfaceBuilder{
		iface: i.Clone(),
	}
}

// Sets the auto flag.
func (b *InterfaceBuilder) WithAuto(auto bool) *InterfaceBuilder {
	b.iface.Auto = auto
	return b
}

// Adds the interface to the allow class.
func (b *InterfaceBuilder) WithAllow(class string) *InterfaceBuilder {
	b.iface.AddAllow(class)
	return b
}

// Sets the address family.
func (b *InterfaceBuilder) WithFamily(family Family) *InterfaceBuilder {
	b.iface.Family = family
	b.iface.Stanza = true
	return b
}

// Sets the configuration method.
func (b *InterfaceBuilder) WithMethod(method Method) *InterfaceBuilder {
	b.iface.Method = method
	b.iface.Stanza = true
	return b
}

// Appends the option.
func (b *InterfaceBuilder) WithOption(option Option) *InterfaceBuilder {
	b.iface.AddOption(option)
	return b
}

// Appends the option given as the key and value. The value is classified
// the same way as by the parser.
func (b *InterfaceBuilder) WithOptionKV(key, value string) *InterfaceBuilder {
	return b.WithOption(ParseOption(key, value))
}

// Removes all options with the key.
func (b *InterfaceBuilder) RemoveOption(key string) *InterfaceBuilder {
	b.iface.RemoveOption(key)
	return b
}

// Removes the options with the key and value.
func (b *InterfaceBuilder) RemoveOptionValue(key, value string) *InterfaceBuilder {
	b.iface.RemoveOptionValue(key, value)
	return b
}

// Returns the built interface. Each call returns a separate copy.
func (b *InterfaceBuilder) Build() *Interface {
	return b.iface.Clone()
}
