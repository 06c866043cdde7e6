package ifupdownconfig

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Interface is a single network interface declared in the interfaces
// file. It combines the bring-up flags set by the auto and allow-* lines
// with the iface stanza. A record created only by the bring-up lines is a
// placeholder: it has no stanza, family or method.
type Interface struct {
	Name string
	// Listed in an auto line.
	Auto bool
	// The allow-* classes (e.g., hotplug) listing the interface, in
	// encounter order.
	Allow  []string
	Family Family
	Method Method
	// Options in the order of appearance. Duplicate keys are allowed.
	Options []Option
	// Indicates that the record has an iface line.
	Stanza bool
}

// Creates a new interface with the given family and method.
func NewInterface(name string, family Family, method Method) *Interface {
	return &Interface{
		Name:   name,
		Family: family,
		Method: method,
		Stanza: true,
	}
}

// Appends an option at the end of the option list.
func (i *Interface) AddOption(option Option) {
	i.Options = append(i.Options, option)
}

// Sets the option replacing the first option with the same key in place
// and removing any later duplicates. The option is appended if there is
// no option with this key.
func (i *Interface) SetOption(option Option) {
	index := slices.IndexFunc(i.Options, func(o Option) bool {
		return o.Key() == option.Key()
	})
	if index < 0 {
		i.AddOption(option)
		return
	}
	i.Options[index] = option
	tail := slices.DeleteFunc(i.Options[index+1:], func(o Option) bool {
		return o.Key() == option.Key()
	})
	i.Options = i.Options[:index+1+len(tail)]
}

// Removes all options with the given key. It returns the number of
// removed options.
func (i *Interface) RemoveOption(key string) int {
	size := len(i.Options)
	i.Options = slices.DeleteFunc(i.Options, func(o Option) bool {
		return o.Key() == key
	})
	return size - len(i.Options)
}

// Removes the options with the given key and value. It returns the number
// of removed options.
func (i *Interface) RemoveOptionValue(key, value string) int {
	size := len(i.Options)
	i.Options = slices.DeleteFunc(i.Options, func(o Option) bool {
		return o.Key() == key && o.Value() == value
	})
	return size - len(i.Options)
}

// Returns the first option with the given key.
func (i *Interface) GetOption(key string) (Option, bool) {
	for _, option := range i.Options {
		if option.Key() == key {
			return option, true
		}
	}
	return nil, false
}

// Returns all options with the given key in their order.
func (i *Interface) GetOptions(key string) (options []Option) {
	for _, option := range i.Options {
		if option.Key() == key {
			options = append(options, option)
		}
	}
	return
}

// Adds the interface to the allow class. It does nothing if the
// interface is already in this class.
func (i *Interface) AddAllow(class string) {
	if !i.HasAllow(class) {
		i.Allow = append(i.Allow, class)
	}
}

// Checks if the interface belongs to the allow class.
func (i *Interface) HasAllow(class string) bool {
	return slices.Contains(i.Allow, class)
}

// Checks if the record was created only by the bring-up lines.
func (i *Interface) IsPlaceholder() bool {
	return !i.Stanza && i.Family == FamilyNone && i.Method == MethodNone && len(i.Options) == 0
}

// Returns a deep copy of the interface. The options are immutable so they
// are shared.
func (i *Interface) Clone() *Interface {
	clone := *i
	clone.Allow = slices.Clone(i.Allow)
	clone.Options = slices.Clone(i.Options)
	return &clone
}

// Checks that the record can be rendered into the text the parser
// accepts. It doesn't verify the semantics of the option values.
func (i *Interface) Validate() error {
	if !isToken(i.Name) {
		return errors.Errorf("invalid interface name '%s'", i.Name)
	}
	if !i.Auto && len(i.Allow) == 0 && i.IsPlaceholder() {
		return errors.Errorf("interface %s has no bring-up flag or stanza", i.Name)
	}
	if (i.Family == FamilyNone) != (i.Method == MethodNone) {
		return errors.Errorf("interface %s must specify both family and method or none of them", i.Name)
	}
	if i.Family != FamilyNone {
		if _, err := ParseFamily(string(i.Family)); err != nil {
			return errors.WithMessagef(err, "invalid interface %s", i.Name)
		}
	}
	if i.Method != MethodNone && !isToken(string(i.Method)) {
		return errors.Errorf("invalid method '%s' of interface %s", i.Method, i.Name)
	}
	for _, class := range i.Allow {
		if !isToken(class) {
			return errors.Errorf("invalid allow class '%s' of interface %s", class, i.Name)
		}
	}
	for _, option := range i.Options {
		if err := validateOption(option); err != nil {
			return errors.WithMessagef(err, "invalid option of interface %s", i.Name)
		}
	}
	return nil
}

func validateOption(option Option) error {
	if option == nil {
		return errors.New("option is nil")
	}
	key := option.Key()
	if !isToken(key) || key[0] == '#' || isKeyword(key) {
		return errors.Errorf("invalid option name '%s'", key)
	}
	if err := validateValue(option.Value(), "value of option "+key); err != nil {
		return err
	}
	if strings.HasSuffix(option.String(), "\\") {
		return errors.Errorf("option %s ends with a line continuation", key)
	}
	return nil
}

// Checks that the value renders as a single logical line. A trailing
// backslash would continue it into the line rendered next.
func validateValue(value, what string) error {
	if strings.ContainsAny(strings.ReplaceAll(value, "\\\n", ""), "\n\r") {
		return errors.Errorf("%s contains a line break", what)
	}
	if strings.HasSuffix(value, "\\") {
		return errors.Errorf("%s ends with a line continuation", what)
	}
	return nil
}

// Checks if the string is non-empty and contains no whitespace.
func isToken(s string) bool {
	return s != "" && !strings.ContainsFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}
