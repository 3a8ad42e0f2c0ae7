// Command vmasm assembles source files for the fixed 32-bit virtual-machine
// ISA into binary images, and can disassemble them back.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lookbusy1344/vmasm/asmvm"
	"github.com/lookbusy1344/vmasm/vmconfig"
)

var (
	outputPath  string
	verbose     bool
	disassemble bool
	listingPath string
)

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func defaultOutputPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + ext
}

func runAssemble(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := vmconfig.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cmd.Flags().Changed("verbose") {
		verbose = cfg.Assemble.Verbose
	}
	if !cmd.Flags().Changed("disassemble") {
		disassemble = cfg.Assemble.Disassemble
	}
	if !cmd.Flags().Changed("list") && cfg.Listing.Enabled {
		listingPath = cfg.Listing.Path
	}

	logger := newLogger(verbose)

	source, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided assembly source path
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	asm := asmvm.NewAssembler(logger)
	image, err := asm.Assemble(string(source), inputPath)
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		return fmt.Errorf("assembly failed with %d error(s)", len(asm.Diags.All()))
	}

	out := outputPath
	if out == "" {
		ext := cfg.Assemble.DefaultOutputExt
		if ext == "" {
			ext = ".bin"
		}
		out = defaultOutputPath(inputPath, ext)
	}
	if err := os.WriteFile(out, image, 0644); err != nil { // #nosec G306 -- assembled binary, not sensitive
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info().Str("output", out).Msg("image written")

	if verbose {
		for _, line := range asmvm.SortedSymbolDump(asm.Symbols.All()) {
			fmt.Println(line)
		}
	}

	if disassemble {
		fmt.Print(asmvm.Disassemble(image))
	}

	if listingPath != "" {
		listing := "Source Code:\n" + string(source) + "\n\nDisassembly:\n" + asmvm.Disassemble(image)
		if err := os.WriteFile(listingPath, []byte(listing), 0644); err != nil { // #nosec G306
			return fmt.Errorf("writing listing: %w", err)
		}
	}

	return nil
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	image, err := os.ReadFile(args[0]) // #nosec G304 -- user-provided binary path
	if err != nil {
		return fmt.Errorf("reading binary: %w", err)
	}
	fmt.Print(asmvm.Disassemble(image))
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "vmasm <input.asm>",
		Short: "Two-pass assembler for the fixed 32-bit virtual-machine ISA",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssemble,
	}
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output binary path (default: input path with .bin extension)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Dump the symbol table, sorted by name, in hex")
	rootCmd.Flags().BoolVarP(&disassemble, "disassemble", "d", false, "Print a round-trip disassembly of the assembled image")
	rootCmd.Flags().StringVarP(&listingPath, "list", "l", "", "Write a disassembly listing to this path")

	disasmCmd := &cobra.Command{
		Use:   "disassemble <input.bin>",
		Short: "Disassemble a standalone assembled binary",
		Args:  cobra.ExactArgs(1),
		RunE:  runDisassemble,
	}
	rootCmd.AddCommand(disasmCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
