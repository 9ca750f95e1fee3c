// Command ccfront runs the C-subset compiler front end over one source file
// and reports the result. It stops at a fully-annotated AST; code
// generation is a downstream consumer's job.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sameerakhatoon/ccfront/pkgs/compiler"
)

func main() {
	var (
		outPath     string
		dumpTokens  bool
		dumpAST     bool
		warnAsError bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:           "ccfront <source-file>",
		Short:         "Compile a C-subset source file to an annotated AST",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println("ccfront", compiler.Version())
				return nil
			}
			if len(args) != 1 {
				cmd.SilenceUsage = false
				return fmt.Errorf("expected exactly one source file")
			}

			var flags compiler.Flags
			if warnAsError {
				flags |= compiler.WarnAsError
			}
			if dumpTokens {
				flags |= compiler.DumpTokens
			}
			if dumpAST {
				flags |= compiler.DumpAST
			}

			_, status, err := compiler.CompileFile(args[0], outPath, flags)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}
			if status != compiler.Success {
				cmd.SilenceUsage = true
				return fmt.Errorf("compilation %s", status)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the AST dump to this path")
	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "Print the token stream to stderr")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "Print the parsed AST to stdout")
	rootCmd.Flags().BoolVar(&warnAsError, "warn-as-error", false, "Treat warnings as errors")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Print the version and exit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
