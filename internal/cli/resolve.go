package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/born-ml/autotokenizer/internal/auto"
	"github.com/born-ml/autotokenizer/internal/tokenizer"
)

type resolveFlags struct {
	dryRun         bool
	useFast        bool
	revision       string
	subfolder      string
	localFilesOnly bool
	forceDownload  bool
	encode         string
}

// resolveResult is the printed outcome of a resolution.
type resolveResult struct {
	Identifier   string  `json:"identifier" yaml:"identifier"`
	Class        string  `json:"class" yaml:"class"`
	Kind         string  `json:"kind" yaml:"kind"`
	Arch         string  `json:"arch,omitempty" yaml:"arch,omitempty"`
	Strategy     string  `json:"strategy" yaml:"strategy"`
	ChatTemplate string  `json:"chatTemplate,omitempty" yaml:"chatTemplate,omitempty"`
	VocabSize    int     `json:"vocabSize,omitempty" yaml:"vocabSize,omitempty"`
	Tokens       []int32 `json:"tokens,omitempty" yaml:"tokens,omitempty"`
}

func newResolveCmd(a *app) *cobra.Command {
	f := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve IDENTIFIER",
		Short: "Resolve the tokenizer class of a model and load it",
		Long: `Resolve the tokenizer class of a model and load it.

IDENTIFIER is a built-in pretrained name, a repository id or a local
directory. With --dry-run only the class is resolved; no tokenizer files
are loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runResolve(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Only resolve the class")
	cmd.Flags().BoolVar(&f.useFast, "use-fast", false, "Prefer accelerated tokenizer classes (default from config)")
	cmd.Flags().StringVar(&f.revision, "revision", "", "Branch, tag or commit (default from config)")
	cmd.Flags().StringVar(&f.subfolder, "subfolder", "", "Subfolder holding the tokenizer files")
	cmd.Flags().BoolVar(&f.localFilesOnly, "local-files-only", false, "Only use local and cached files")
	cmd.Flags().BoolVar(&f.forceDownload, "force-download", false, "Download files even when cached")
	cmd.Flags().StringVar(&f.encode, "encode", "", "Text to encode with the loaded tokenizer")
	return cmd
}

func (a *app) runResolve(cmd *cobra.Command, identifier string, f *resolveFlags) error {
	reg, err := a.registryFor()
	if err != nil {
		return err
	}

	fetch := a.cfg.FetchOptions()
	if f.revision != "" {
		fetch.Revision = f.revision
	}
	fetch.Subfolder = f.subfolder
	fetch.LocalFilesOnly = f.localFilesOnly
	fetch.ForceDownload = f.forceDownload

	useFast := a.cfg.Resolve.UseFast
	if cmd.Flags().Changed("use-fast") {
		useFast = f.useFast
	}
	opts := []auto.ResolveOption{auto.WithFetchOptions(fetch), auto.WithUseFast(useFast)}

	ctx := cmd.Context()
	var (
		res *auto.Resolution
		tok tokenizer.Tokenizer
	)
	if f.dryRun {
		res, err = reg.ResolveClass(ctx, identifier, opts...)
	} else {
		tok, res, err = reg.ResolveAndLoad(ctx, identifier, opts...)
	}
	if err != nil {
		return err
	}

	out := resolveResult{
		Identifier:   identifier,
		Class:        res.Class.Name,
		Kind:         string(res.Class.Kind),
		Arch:         string(res.Class.Arch),
		Strategy:     string(res.Strategy),
		ChatTemplate: res.Class.ChatTemplate,
	}

	if tok != nil {
		out.VocabSize = tok.VocabSize()
		if f.encode != "" {
			if out.Tokens, err = tok.Encode(f.encode); err != nil {
				return fmt.Errorf("failed to encode: %w", err)
			}
		}
	}

	rows := [][]string{{"identifier", out.Identifier}, {"class", out.Class}, {"kind", out.Kind},
		{"arch", orDash(out.Arch)}, {"strategy", out.Strategy}, {"chat template", orDash(out.ChatTemplate)}}
	if !f.dryRun {
		rows = append(rows, []string{"vocab size", strconv.Itoa(out.VocabSize)})
	}
	if out.Tokens != nil {
		rows = append(rows, []string{"tokens", fmt.Sprint(out.Tokens)})
	}
	return a.printer(cmd.OutOrStdout()).print(out, []string{"FIELD", "VALUE"}, rows)
}
