package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// ArgKind is the value type of an argument.
type ArgKind int

const (
	KindString ArgKind = iota
	KindInt
	KindFloat
	KindBool
)

func (k ArgKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Arg declares one flag or positional argument.
type Arg struct {
	Name  string
	Short string
	Kind  ArgKind
	// Default is parsed like user input; empty means the zero value.
	Default    string
	Required   bool
	Positional bool
	// Choices restricts string values.
	Choices []string
	// Check, when set, validates an explicitly given value.
	Check func(string) error
	Help  string
}

// Schema declares the arguments a command accepts.
type Schema struct {
	Args []Arg
	// OneOf lists groups of flags of which exactly one must be given.
	OneOf [][]string
}

// Args holds parsed arguments.
type Args struct {
	flags      *pflag.FlagSet
	positional map[string]string
	given      map[string]bool
}

// Changed reports whether the argument was given explicitly.
func (a *Args) Changed(name string) bool {
	if a == nil {
		return false
	}
	return a.given[name]
}

// String returns a string argument, or the string form of any other kind.
func (a *Args) String(name string) string {
	if a == nil {
		return ""
	}
	if v, ok := a.positional[name]; ok {
		return v
	}
	if f := a.flags.Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// Int returns an integer argument.
func (a *Args) Int(name string) int {
	if a == nil {
		return 0
	}
	if v, ok := a.positional[name]; ok {
		n, _ := strconv.Atoi(v)
		return n
	}
	n, _ := a.flags.GetInt(name)
	return n
}

// Float returns a float argument.
func (a *Args) Float(name string) float64 {
	if a == nil {
		return 0
	}
	if v, ok := a.positional[name]; ok {
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	f, _ := a.flags.GetFloat64(name)
	return f
}

// Bool returns a boolean flag.
func (a *Args) Bool(name string) bool {
	if a == nil {
		return false
	}
	b, _ := a.flags.GetBool(name)
	return b
}

// Usage renders a synopsis and the flag table for command.
func (s Schema) Usage(command string) string {
	fs, _ := s.flagSet(command)
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(command)
	if fs.HasFlags() {
		b.WriteString(" [flags]")
	}
	for _, arg := range s.Args {
		if !arg.Positional {
			continue
		}
		if arg.Required {
			fmt.Fprintf(&b, " %s", strings.ToUpper(arg.Name))
		} else {
			fmt.Fprintf(&b, " [%s]", strings.ToUpper(arg.Name))
		}
	}
	b.WriteByte('\n')
	if fs.HasFlags() {
		b.WriteString(fs.FlagUsages())
	}
	return b.String()
}

func (s Schema) flagSet(command string) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(command, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	for _, arg := range s.Args {
		if arg.Positional {
			continue
		}
		help := arg.Help
		if len(arg.Choices) > 0 {
			help = fmt.Sprintf("%s (one of: %s)", help, strings.Join(arg.Choices, ", "))
		}
		switch arg.Kind {
		case KindString:
			fs.StringP(arg.Name, arg.Short, arg.Default, help)
		case KindInt:
			def, err := parseDefaultInt(arg)
			if err != nil {
				return fs, err
			}
			fs.IntP(arg.Name, arg.Short, def, help)
		case KindFloat:
			def := 0.0
			if arg.Default != "" {
				v, err := strconv.ParseFloat(arg.Default, 64)
				if err != nil {
					return fs, fmt.Errorf("default of --%s: %w", arg.Name, err)
				}
				def = v
			}
			fs.Float64P(arg.Name, arg.Short, def, help)
		case KindBool:
			fs.BoolP(arg.Name, arg.Short, arg.Default == "true", help)
		}
	}
	return fs, nil
}

func parseDefaultInt(arg Arg) (int, error) {
	if arg.Default == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(arg.Default)
	if err != nil {
		return 0, fmt.Errorf("default of --%s: %w", arg.Name, err)
	}
	return v, nil
}

// Parse interprets argv (the tokens after the command name). All problems
// are reported as *UsageError.
func (s Schema) Parse(command string, argv []string) (*Args, error) {
	usage := func(format string, a ...any) error {
		return &UsageError{Command: command, Msg: fmt.Sprintf(format, a...), Usage: s.Usage(command)}
	}

	fs, err := s.flagSet(command)
	if err != nil {
		return nil, usage("%v", err)
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, usage("help requested")
		}
		return nil, usage("%v", err)
	}

	args := &Args{
		flags:      fs,
		positional: make(map[string]string),
		given:      make(map[string]bool),
	}
	rest := fs.Args()
	for _, arg := range s.Args {
		if arg.Positional {
			if len(rest) == 0 {
				if arg.Required {
					return nil, usage("missing argument %s", strings.ToUpper(arg.Name))
				}
				args.positional[arg.Name] = arg.Default
				continue
			}
			value := rest[0]
			rest = rest[1:]
			if err := checkValue(arg, value); err != nil {
				return nil, usage("%v", err)
			}
			args.positional[arg.Name] = value
			args.given[arg.Name] = true
			continue
		}

		changed := fs.Changed(arg.Name)
		args.given[arg.Name] = changed
		if arg.Required && !changed {
			return nil, usage("missing required flag --%s", arg.Name)
		}
		if changed && (len(arg.Choices) > 0 || arg.Check != nil) {
			if err := checkValue(arg, fs.Lookup(arg.Name).Value.String()); err != nil {
				return nil, usage("%v", err)
			}
		}
	}
	if len(rest) > 0 {
		return nil, usage("unexpected argument %q", rest[0])
	}

	for _, group := range s.OneOf {
		var set []string
		for _, name := range group {
			if args.given[name] {
				set = append(set, "--"+name)
			}
		}
		switch len(set) {
		case 1:
		case 0:
			return nil, usage("one of --%s is required", strings.Join(group, ", --"))
		default:
			return nil, usage("%s are mutually exclusive", strings.Join(set, " and "))
		}
	}
	return args, nil
}

func checkValue(arg Arg, value string) error {
	if len(arg.Choices) > 0 && !slices.Contains(arg.Choices, value) {
		return fmt.Errorf("invalid value %q for %s (one of: %s)", value, arg.Name, strings.Join(arg.Choices, ", "))
	}
	switch arg.Kind {
	case KindInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, arg.Name)
		}
	case KindFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid number %q for %s", value, arg.Name)
		}
	}
	if arg.Check != nil {
		if err := arg.Check(value); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, arg.Name, err)
		}
	}
	return nil
}
