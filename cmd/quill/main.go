package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/quillscript/quill/internal/bundle"
	"github.com/quillscript/quill/internal/bytecode"
	"github.com/quillscript/quill/internal/cache"
	"github.com/quillscript/quill/internal/catalog"
	"github.com/quillscript/quill/internal/config"
)

const usage = `usage: quill <command> [arguments]

commands:
  disasm <bundle>   pretty-print a compiled bundle
  hash <typename>   print the identity of a textual type name
  cache stat        show bundle cache statistics
  cache clear       remove every cached bundle
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "disasm":
		err = runDisasm(os.Args[2:])
	case "hash":
		err = runHash(os.Args[2:])
	case "cache":
		err = runCache(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "quill: unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		os.Exit(1)
	}
}

// colorize wraps s in an ANSI color when stdout is a terminal.
func colorize(s, color string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return color + s + "\x1b[0m"
}

const (
	colorBold = "\x1b[1m"
	colorDim  = "\x1b[2m"
)

func runDisasm(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("disasm expects one bundle file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := bundle.Decode(f)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", colorize("bundle", colorBold), b.Source)
	fmt.Printf("%s %s (%s)\n", colorize("build", colorDim), b.BuildID, b.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %d constants, %d functions\n\n", colorize("totals", colorDim), len(b.Constants), len(b.Functions))

	pool := b.Pool()
	for i := range b.Functions {
		fn := &b.Functions[i]
		header := fn.Name
		if fn.IsClosure {
			header += fmt.Sprintf(" (closure, %d captures)", len(fn.Captures))
		}
		bytecode.Disassemble(os.Stdout, colorize(header, colorBold), fn.Chunk(), pool)
		fmt.Println()
	}
	return nil
}

func runHash(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("hash expects one type name")
	}
	tn, err := catalog.ParseTypeName(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\n", tn.Identity(), args[0])
	return nil
}

func runCache(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("cache expects stat or clear")
	}

	cfg := config.Default()
	if path, err := config.Find("."); err == nil && path != "" {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		}
	}

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer c.Close()

	switch args[0] {
	case "stat":
		entries, size, err := c.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%d bundles, %d bytes\n", cfg.Cache.Path, entries, size)
	case "clear":
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
	default:
		return fmt.Errorf("cache expects stat or clear, got %q", args[0])
	}
	return nil
}
