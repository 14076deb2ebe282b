package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/classmeta/internal/cli/ui"
	"github.com/conduit-lang/classmeta/internal/inspect"
	"github.com/conduit-lang/classmeta/internal/vm"
	"github.com/conduit-lang/classmeta/runtime/classes"
)

// withType loads the machine and resolves args[0] before calling fn
func (s *session) withType(fn func(cmd *cobra.Command, m *vm.Machine, t *classes.Type, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m, err := s.machine(cmd.Context())
		if err != nil {
			return err
		}
		t, err := resolve(m, args[0])
		if err != nil {
			return err
		}
		return fn(cmd, m, t, args[1:])
	}
}

func newTypesCommand(s *session) *cobra.Command {
	var loader string
	var hidden bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the loaded types",
		Long: `List every type defined by the loaded definitions, in load order.

Built-in types that a definition only describes are listed as well.`,
		Example: `  # List all types
  classmeta types -d definitions/

  # Only the types of one loader
  classmeta types --loader plugins

  # JSON for tooling
  classmeta types --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.machine(cmd.Context())
			if err != nil {
				return err
			}
			views := []inspect.TypeView{}
			for _, t := range m.Types() {
				if loader != "" && t.Loader().Name() != loader {
					continue
				}
				if t.IsHidden() && !hidden {
					continue
				}
				views = append(views, inspect.Describe(t))
			}
			if s.json() {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			table := ui.NewTable(cmd.OutOrStdout(), s.palette, "NAME", "KIND", "MODIFIERS", "LOADER")
			for _, v := range views {
				table.AddRow(v.Name, v.Kind, v.Modifiers, v.Loader)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&loader, "loader", "", "Only list types defined by this loader")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Include hidden types")
	return cmd
}

func newInspectCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <type>",
		Short: "Show a type's description",
		Long: `Show everything known about a type: its declaration, names,
loader, supertypes, nesting, and record or sealed details.

Type references accept binary names (p.Outer$Inner), source array
syntax (java.lang.String[]), descriptor arrays ([I) and primitives. Prefix
a reference with "loader:" to resolve it from a named loader.`,
		Example: `  classmeta inspect java.lang.String
  classmeta inspect 'p.Outer$Inner'
  classmeta inspect plugins:com.acme.Plugin --format json`,
		Args: cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, m *vm.Machine, t *classes.Type, _ []string) error {
			v := inspect.Describe(t)
			if s.json() {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			w := cmd.OutOrStdout()
			ui.Header(w, s.palette, v.Declaration)
			pairs := ui.NewPairs(w, s.palette)
			pairs.Add("Name", v.Name)
			pairs.Add("Kind", v.Kind)
			pairs.Add("Simple name", v.SimpleName)
			pairs.Add("Canonical name", v.CanonicalName)
			pairs.Add("Descriptor", v.Descriptor)
			pairs.Add("Loader", v.Loader)
			pairs.Add("Superclass", v.Superclass)
			pairs.AddList("Interfaces", v.Interfaces)
			pairs.AddList("Type parameters", v.TypeParameters)
			pairs.Add("Declaring class", v.DeclaringClass)
			pairs.Add("Enclosing class", v.EnclosingClass)
			pairs.Add("Nest host", v.NestHost)
			pairs.AddList("Permitted", v.Permitted)
			pairs.AddList("Components", v.Components)
			pairs.AddList("Flags", v.Flags)
			pairs.Add("Generation", fmt.Sprint(v.Generation))
			pairs.Render()
			return nil
		}),
	}
}

// renderMembers prints member views as JSON or as a table
func (s *session) renderMembers(cmd *cobra.Command, views []inspect.MemberView) error {
	if s.json() {
		return writeJSON(cmd.OutOrStdout(), views)
	}
	table := ui.NewTable(cmd.OutOrStdout(), s.palette, "SIGNATURE", "DECLARED IN")
	for _, v := range views {
		table.AddRow(v.Signature, v.DeclaringClass)
	}
	table.Render()
	return nil
}

func (s *session) renderMember(cmd *cobra.Command, v inspect.MemberView) error {
	if s.json() {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	pairs := ui.NewPairs(cmd.OutOrStdout(), s.palette)
	pairs.Add("Signature", v.Signature)
	pairs.Add("Declared in", v.DeclaringClass)
	pairs.Add("Modifiers", v.Modifiers)
	pairs.Add("Type", v.Type)
	pairs.Add("Descriptor", v.Descriptor)
	pairs.Render()
	return nil
}

func newFieldsCommand(s *session) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "fields <type>",
		Short: "List a type's fields",
		Long: `List the public fields of a type, including the fields of its
superinterfaces and superclasses. With --declared, list every field the
type itself declares whatever its access.`,
		Args: cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, _ []string) error {
			return s.renderMembers(cmd, inspect.Fields(t, declared))
		}),
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "Only fields declared by the type, of any access")
	return cmd
}

func newFieldCommand(s *session) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "field <type> <name>",
		Short: "Find a field by name",
		Long: `Find a field the way reflective lookup does: the type's own public
fields first, then its superinterfaces, then its superclass chain.`,
		Args: cobra.ExactArgs(2),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, args []string) error {
			lookup := t.Field
			if declared {
				lookup = t.DeclaredField
			}
			f, err := lookup(args[0])
			if err != nil {
				return err
			}
			return s.renderMember(cmd, inspect.Field(f))
		}),
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "Only fields declared by the type, of any access")
	return cmd
}

func newMethodsCommand(s *session) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "methods <type>",
		Short: "List a type's methods",
		Long: `List the public methods of a type, including inherited ones. Where
several methods share a signature only the most specific is listed.
With --declared, list every method the type itself declares.`,
		Args: cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, _ []string) error {
			return s.renderMembers(cmd, inspect.Methods(t, declared))
		}),
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "Only methods declared by the type, of any access")
	return cmd
}

func newMethodCommand(s *session) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "method <type> <name> [param-type...]",
		Short: "Find a method by name and parameter types",
		Long: `Find a method the way reflective lookup does. Parameter types must
match exactly; when several methods match, the one with the most specific
return type wins.`,
		Example: `  classmeta method java.lang.Object equals java.lang.Object
  classmeta method p.Matrix multiply 'double[][]'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.machine(cmd.Context())
			if err != nil {
				return err
			}
			t, err := resolve(m, args[0])
			if err != nil {
				return err
			}
			loader, _ := splitRef(args[0])
			params, err := resolveAll(m, loader, args[2:])
			if err != nil {
				return err
			}
			lookup := t.Method
			if declared {
				lookup = t.DeclaredMethod
			}
			method, err := lookup(args[1], params...)
			if err != nil {
				return err
			}
			return s.renderMember(cmd, inspect.Method(method))
		},
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "Only methods declared by the type, of any access")
	return cmd
}

func newConstructorsCommand(s *session) *cobra.Command {
	var declared bool
	cmd := &cobra.Command{
		Use:   "constructors <type>",
		Short: "List a type's constructors",
		Args:  cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, _ []string) error {
			return s.renderMembers(cmd, inspect.Constructors(t, declared))
		}),
	}
	cmd.Flags().BoolVar(&declared, "declared", false, "Include constructors of any access")
	return cmd
}

func newHierarchyCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <type>",
		Short: "Show a type's supertypes",
		Long: `Show the superclass chain of a type, nearest first, and every
interface it implements directly or through its supertypes.`,
		Args: cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, _ []string) error {
			h := inspect.Hierarchy(t)
			if s.json() {
				return writeJSON(cmd.OutOrStdout(), h)
			}
			w := cmd.OutOrStdout()
			ui.Header(w, s.palette, h.Name)
			for i, name := range h.Superclasses {
				fmt.Fprintf(w, "%s└─ %s\n", strings.Repeat("   ", i), name)
			}
			if len(h.Interfaces) > 0 {
				interfaces := append([]string(nil), h.Interfaces...)
				sort.Strings(interfaces)
				fmt.Fprintln(w)
				s.palette.Key.Fprintln(w, "Interfaces:")
				for _, name := range interfaces {
					fmt.Fprintf(w, "  %s\n", name)
				}
			}
			return nil
		}),
	}
}

func newListingCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "listing <type>",
		Short: "Print a source-like outline of a type",
		Long: `Print a type's declaration and declared members as a source-like
outline. Rendering is bounded by text.max_capacity.`,
		Args: cobra.ExactArgs(1),
		RunE: s.withType(func(cmd *cobra.Command, _ *vm.Machine, t *classes.Type, _ []string) error {
			out, err := inspect.Listing(t, s.cfg.BuilderConfig())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	}
}
