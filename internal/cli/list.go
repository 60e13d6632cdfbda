package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known architectures, classes and pretrained names",
	}
	cmd.AddCommand(
		newListArchitecturesCmd(a),
		newListClassesCmd(a),
		newListPretrainedCmd(a),
	)
	return cmd
}

type archRow struct {
	Arch        string   `json:"arch" yaml:"arch"`
	Reference   []string `json:"reference,omitempty" yaml:"reference,omitempty"`
	Accelerated string   `json:"accelerated,omitempty" yaml:"accelerated,omitempty"`
}

func newListArchitecturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "architectures",
		Aliases: []string{"archs"},
		Short:   "List the architecture table in resolution order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registryFor()
			if err != nil {
				return err
			}

			var out []archRow
			var rows [][]string
			for _, e := range reg.Architectures() {
				out = append(out, archRow{
					Arch:        string(e.Arch),
					Reference:   e.Variants.Reference,
					Accelerated: e.Variants.Accelerated,
				})
				rows = append(rows, []string{
					string(e.Arch),
					orDash(strings.Join(e.Variants.Reference, ",")),
					orDash(e.Variants.Accelerated),
				})
			}
			return a.printer(cmd.OutOrStdout()).print(out, []string{"ARCH", "REFERENCE", "ACCELERATED"}, rows)
		},
	}
}

type classRow struct {
	Name         string `json:"name" yaml:"name"`
	Kind         string `json:"kind" yaml:"kind"`
	Arch         string `json:"arch,omitempty" yaml:"arch,omitempty"`
	Pretrained   int    `json:"pretrained" yaml:"pretrained"`
	ChatTemplate string `json:"chatTemplate,omitempty" yaml:"chatTemplate,omitempty"`
}

func newListClassesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List linked tokenizer classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registryFor()
			if err != nil {
				return err
			}

			var out []classRow
			var rows [][]string
			for _, c := range reg.Classes() {
				r := classRow{
					Name:         c.Name,
					Kind:         string(c.Kind),
					Arch:         string(c.Arch),
					Pretrained:   len(c.Pretrained),
					ChatTemplate: c.ChatTemplate,
				}
				out = append(out, r)
				rows = append(rows, []string{r.Name, r.Kind, orDash(r.Arch), strconv.Itoa(r.Pretrained), orDash(r.ChatTemplate)})
			}
			return a.printer(cmd.OutOrStdout()).print(out, []string{"NAME", "KIND", "ARCH", "PRETRAINED", "CHAT TEMPLATE"}, rows)
		},
	}
}

type pretrainedRow struct {
	Name  string `json:"name" yaml:"name"`
	Class string `json:"class" yaml:"class"`
}

func newListPretrainedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pretrained [PREFIX]",
		Short: "List built-in pretrained names, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registryFor()
			if err != nil {
				return err
			}

			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}

			var out []pretrainedRow
			var rows [][]string
			for _, name := range reg.BuiltinNames(prefix) {
				c := reg.ResolveByBuiltinName(name)
				out = append(out, pretrainedRow{Name: name, Class: c.Name})
				rows = append(rows, []string{name, c.Name})
			}
			return a.printer(cmd.OutOrStdout()).print(out, []string{"NAME", "CLASS"}, rows)
		},
	}
}
