package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"isc.org/netiface"
	ifupdownconfig "isc.org/netiface/config/ifupdown"
	netifaceutil "isc.org/netiface/util"
)

// Default location of the interfaces file on Debian systems.
const defaultInterfacesFile = "/etc/network/interfaces"

// Loads the interfaces file pointed by the global --file flag.
func loadFile(c *cli.Context) (*ifupdownconfig.File, error) {
	path := c.String("file")
	log.WithField("path", path).Debug("Loading interfaces file")
	return ifupdownconfig.LoadFile(path)
}

// Returns the positional argument or an error if it is missing.
func requireArg(c *cli.Context, index int, name string) (string, error) {
	if c.NArg() <= index {
		return "", errors.Errorf("missing %s argument", name)
	}
	return c.Args().Get(index), nil
}

// Returns the interface from the document or an error if it doesn't
// exist.
func getInterface(file *ifupdownconfig.File, name string) (*ifupdownconfig.Interface, error) {
	iface, ok := file.Document.Get(name)
	if !ok {
		return nil, errors.Errorf("interface %s not found in %s", name, file.Path())
	}
	return iface, nil
}

// Returns the short description of the bring-up flags.
func describeBringUp(iface *ifupdownconfig.Interface) string {
	var flags []string
	if iface.Auto {
		flags = append(flags, "auto")
	}
	for _, class := range iface.Allow {
		flags = append(flags, "allow-"+class)
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// Execute show command. It prints the interfaces in the document order.
func runShow(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tBRING-UP\tFAMILY\tMETHOD\tOPTIONS")
	for iface := range file.Document.Interfaces() {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n",
			iface.Name,
			describeBringUp(iface),
			valueOrDash(iface.Family.String()),
			valueOrDash(iface.Method.String()),
			len(iface.Options),
		)
	}
	return writer.Flush()
}

// Execute get command. It prints a single interface stanza.
func runGet(c *cli.Context) error {
	name, err := requireArg(c, 0, "interface name")
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	iface, err := getInterface(file, name)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, ifupdownconfig.FormatInterface(iface))
	if mapping, ok := file.Document.GetMappingFor(name); ok {
		fmt.Fprintf(c.App.Writer, "# mapped by 'mapping %s'\n", mapping.Pattern)
	}
	return nil
}

// Execute format command. It prints or saves the normalized file.
func runFormat(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	if c.Bool("sort") {
		file.Document.ReorderNatural()
	}
	if c.Bool("write") {
		return saveFile(file)
	}
	fmt.Fprint(c.App.Writer, file.Document)
	return nil
}

// Saves the file and logs the outcome.
func saveFile(file *ifupdownconfig.File) error {
	if err := file.Save(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"path":       file.Path(),
		"interfaces": file.Document.Len(),
	}).Info("Saved interfaces file")
	return nil
}

// Execute set-option command. It replaces the option of the interface
// or appends it.
func runSetOption(c *cli.Context) error {
	name, err := requireArg(c, 0, "interface name")
	if err != nil {
		return err
	}
	key, err := requireArg(c, 1, "option name")
	if err != nil {
		return err
	}
	value := strings.Join(c.Args().Slice()[2:], " ")
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	iface, err := getInterface(file, name)
	if err != nil {
		return err
	}
	edited := iface.Edit().Build()
	edited.SetOption(ifupdownconfig.ParseOption(key, value))
	if err := file.Document.Upsert(edited); err != nil {
		return err
	}
	return saveFile(file)
}

// Execute remove-option command. It removes all options with the key or
// only the options with the key and value.
func runRemoveOption(c *cli.Context) error {
	name, err := requireArg(c, 0, "interface name")
	if err != nil {
		return err
	}
	key, err := requireArg(c, 1, "option name")
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	iface, err := getInterface(file, name)
	if err != nil {
		return err
	}
	var removed int
	if c.NArg() > 2 {
		removed = iface.RemoveOptionValue(key, strings.Join(c.Args().Slice()[2:], " "))
	} else {
		removed = iface.RemoveOption(key)
	}
	if removed == 0 {
		return errors.Errorf("interface %s has no matching %s option", name, key)
	}
	return saveFile(file)
}

// Parses the key=value option flag.
func parseOptionFlag(option string) (ifupdownconfig.Option, error) {
	key, value, found := strings.Cut(option, "=")
	if !found || key == "" {
		return nil, errors.Errorf("invalid option '%s', expected key=value", option)
	}
	return ifupdownconfig.ParseOption(key, value), nil
}

// Execute add command. It appends a new interface.
func runAdd(c *cli.Context) error {
	name, err := requireArg(c, 0, "interface name")
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	if _, exists := file.Document.Get(name); exists {
		return errors.Errorf("interface %s already exists in %s", name, file.Path())
	}

	builder := ifupdownconfig.NewInterfaceBuilder(name).WithAuto(c.Bool("auto"))
	for _, class := range c.StringSlice("allow") {
		builder.WithAllow(class)
	}
	if c.IsSet("family") || c.IsSet("method") {
		family, err := ifupdownconfig.ParseFamily(c.String("family"))
		if err != nil {
			return err
		}
		builder.WithFamily(family).WithMethod(ifupdownconfig.ParseMethod(c.String("method")))
	}
	for _, option := range c.StringSlice("option") {
		parsed, err := parseOptionFlag(option)
		if err != nil {
			return err
		}
		builder.WithOption(parsed)
	}
	if err := file.Document.Upsert(builder.Build()); err != nil {
		return err
	}
	return saveFile(file)
}

// Execute delete command. It removes the interface keeping its comments.
func runDelete(c *cli.Context) error {
	name, err := requireArg(c, 0, "interface name")
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	if _, ok := file.Document.Remove(name); !ok {
		return errors.Errorf("interface %s not found in %s", name, file.Path())
	}
	return saveFile(file)
}

// Execute diff command. It prints the unified diff between the file and
// its normalized rendering.
func runDiff(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	original, err := os.ReadFile(file.Path())
	if err != nil {
		return ifupdownconfig.NewIOError("read", file.Path(), err)
	}
	formatted := file.Document.Clone()
	if c.Bool("sort") {
		formatted.ReorderNatural()
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(ifupdownconfig.Render(formatted)),
		FromFile: file.Path(),
		ToFile:   "formatted",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return errors.Wrap(err, "failed to compute the diff")
	}
	fmt.Fprint(c.App.Writer, text)
	return nil
}

// Execute export command. It prints the document as YAML.
func runExport(c *cli.Context) error {
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	return exportYAML(c.App.Writer, file.Document)
}

// Parses the VLAN or VNI number argument.
func parseNumberArg(c *cli.Context, index int, name string, bitSize int) (uint64, error) {
	arg, err := requireArg(c, index, name)
	if err != nil {
		return 0, err
	}
	number, err := strconv.ParseUint(arg, 10, bitSize)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s '%s'", name, arg)
	}
	return number, nil
}

// Execute next-vlan command. It prints the first VLAN ID in the range
// without the vlan<ID> interface.
func runNextVLAN(c *cli.Context) error {
	start, err := parseNumberArg(c, 0, "range start", 16)
	if err != nil {
		return err
	}
	end, err := parseNumberArg(c, 1, "range end", 16)
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	id, ok := file.Document.NextUnusedVLANInRange(uint16(start), uint16(end))
	if !ok {
		return errors.Errorf("all VLAN IDs in range %d-%d are used", start, end)
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

// Execute vni-vlan command. It prints the VLAN ID of the VNI interface.
func runVNIVLAN(c *cli.Context) error {
	vni, err := parseNumberArg(c, 0, "VNI", 32)
	if err != nil {
		return err
	}
	file, err := loadFile(c)
	if err != nil {
		return err
	}
	id, ok := file.Document.GetExistingVNIVLAN(uint32(vni))
	if !ok {
		return errors.Errorf("no VLAN found for VNI %d", vni)
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

// Applies the environment file entries to the global flags bound to the
// same environment variables. The flags set on the command line or in the
// process environment take precedence.
type flagEnvironmentSetter struct {
	context *cli.Context
}

func (s *flagEnvironmentSetter) Set(key, value string) error {
	for _, flag := range s.context.App.Flags {
		envFlag, ok := flag.(cli.DocGenerationFlag)
		if !ok || !slices.Contains(envFlag.GetEnvVars(), key) {
			continue
		}
		name := flag.Names()[0]
		if s.context.IsSet(name) {
			return nil
		}
		return s.context.Set(name, value)
	}
	log.WithField("variable", key).Debug("Skipping unknown variable from the environment file")
	return nil
}

func setupApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, c.App.Version)
	}

	cli.HelpFlag = &cli.BoolFlag{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   "Show help",
	}

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version",
	}

	sortFlag := &cli.BoolFlag{
		Name:    "sort",
		Usage:   "Reorder the interfaces in the natural order (eth2 before eth10)",
		Aliases: []string{"s"},
	}

	app := &cli.App{
		Name:  "Netiface Tool",
		Usage: "A tool for inspecting and editing the ifupdown interfaces file.",
		Description: `The tool reads the interfaces(5) file, applies the requested change and
   writes the file back keeping the comments, blank lines and source
   directives in place. The file is not overwritten if it was modified by
   someone else in the meantime.`,
		Version:  netiface.Version,
		HelpName: "netiface-tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Usage:   "The interfaces file location",
				Value:   defaultInterfacesFile,
				Aliases: []string{"f"},
				EnvVars: []string{"NETIFACE_FILE"},
			},
			&cli.PathFlag{
				Name:    "env-file",
				Usage:   "The environment file with the NETIFACE_* variables",
				EnvVars: []string{"NETIFACE_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Logging level. Allowed values are: DEBUG, INFO, WARN, ERROR",
				Value:   "INFO",
				EnvVars: []string{"NETIFACE_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("env-file") {
				err := netifaceutil.LoadEnvironmentFileToSetter(
					c.Path("env-file"),
					&flagEnvironmentSetter{context: c},
				)
				if err != nil {
					return errors.WithMessagef(err, "the '%s' environment file is invalid", c.Path("env-file"))
				}
			}
			return netifaceutil.SetLogLevel(c.String("log-level"))
		},
		Commands: []*cli.Command{
			// INSPECTION COMMANDS
			{
				Name:      "show",
				Usage:     "List the interfaces",
				UsageText: "netiface-tool show",
				Category:  "Inspection",
				Action:    runShow,
			},
			{
				Name:      "get",
				Usage:     "Print the interface stanza",
				UsageText: "netiface-tool get <name>",
				Category:  "Inspection",
				Action:    runGet,
			},
			{
				Name:      "export",
				Usage:     "Print the interfaces and mappings as YAML",
				UsageText: "netiface-tool export",
				Category:  "Inspection",
				Action:    runExport,
			},
			{
				Name:      "diff",
				Usage:     "Print the differences between the file and its formatted version",
				UsageText: "netiface-tool diff [--sort]",
				Flags:     []cli.Flag{sortFlag},
				Category:  "Inspection",
				Action:    runDiff,
			},
			{
				Name:      "next-vlan",
				Usage:     "Print the first VLAN ID in the range without the vlan<ID> interface",
				UsageText: "netiface-tool next-vlan <start> <end>",
				Category:  "Inspection",
				Action:    runNextVLAN,
			},
			{
				Name:      "vni-vlan",
				Usage:     "Print the VLAN ID bound to the vni<VNI> interface",
				UsageText: "netiface-tool vni-vlan <vni>",
				Category:  "Inspection",
				Action:    runVNIVLAN,
			},
			// EDITING COMMANDS
			{
				Name:      "format",
				Usage:     "Print or save the formatted file",
				UsageText: "netiface-tool format [--sort] [--write]",
				Flags: []cli.Flag{
					sortFlag,
					&cli.BoolFlag{
						Name:    "write",
						Usage:   "Save the formatted file instead of printing it",
						Aliases: []string{"w"},
					},
				},
				Category: "Editing",
				Action:   runFormat,
			},
			{
				Name:      "add",
				Usage:     "Add a new interface",
				UsageText: "netiface-tool add <name> [--auto] [--allow class] [--family inet --method static] [--option key=value]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "auto",
						Usage: "Bring the interface up at boot",
					},
					&cli.StringSliceFlag{
						Name:  "allow",
						Usage: "The allow class (e.g., hotplug); can be repeated",
					},
					&cli.StringFlag{
						Name:  "family",
						Usage: "The address family: inet, inet6, ipx or can",
						Value: "inet",
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "The configuration method (e.g., static, dhcp, manual)",
						Value: "manual",
					},
					&cli.StringSliceFlag{
						Name:    "option",
						Usage:   "The option in the key=value format; can be repeated",
						Aliases: []string{"o"},
					},
				},
				Category: "Editing",
				Action:   runAdd,
			},
			{
				Name:      "set-option",
				Usage:     "Set the interface option replacing its current value",
				UsageText: "netiface-tool set-option <name> <key> [value...]",
				Category:  "Editing",
				Action:    runSetOption,
			},
			{
				Name:      "remove-option",
				Usage:     "Remove the interface option",
				UsageText: "netiface-tool remove-option <name> <key> [value...]",
				Category:  "Editing",
				Action:    runRemoveOption,
			},
			{
				Name:      "delete",
				Usage:     "Delete the interface",
				UsageText: "netiface-tool delete <name>",
				Category:  "Editing",
				Action:    runDelete,
			},
		},
	}

	return app
}

func main() {
	// Setup logging
	netifaceutil.SetupLogging()

	app := setupApp()
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
