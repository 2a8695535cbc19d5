package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mna/dicelang"
	"github.com/mna/dicelang/lang/diag"
)

const binName = "dice"

var longUsage = fmt.Sprintf(`usage: %s <command> <path>
       %[1]s -h|--help

Compiler and runner for the Dice scripting language.

The <command> can be one of:
       run                       Compile and execute a script, printing
                                  its result.
       disasm                    Compile a script and print its
                                  disassembled bytecode.

More information: https://github.com/mna/dicelang
`, binName)

func main() {
	help := flag.Bool("h", false, "show this help and exit")
	flag.BoolVar(help, "help", false, "show this help and exit")
	flag.Usage = func() { fmt.Fprint(os.Stderr, longUsage) }
	flag.Parse()

	if *help {
		fmt.Fprint(os.Stdout, longUsage)
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprint(os.Stderr, longUsage)
		os.Exit(2)
	}

	cmd, path := args[0], args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch cmd {
	case "run":
		os.Exit(runScript(path, string(src)))
	case "disasm":
		os.Exit(disasmScript(path, string(src)))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n%s", cmd, longUsage)
		os.Exit(2)
	}
}

func runScript(path, src string) int {
	chunk, err := dice.CompileScript(src, path, dice.Script)
	if err != nil {
		printDiag(err)
		return 1
	}
	result, err := dice.NewThread(time.Now().UnixNano()).RunScript(chunk)
	if err != nil {
		printDiag(err)
		return 1
	}
	fmt.Fprintln(os.Stdout, result.String())
	return 0
}

func disasmScript(path, src string) int {
	chunk, err := dice.CompileScript(src, path, dice.Script)
	if err != nil {
		printDiag(err)
		return 1
	}
	fmt.Fprint(os.Stdout, dice.Disassemble(chunk))
	return 0
}

func printDiag(err error) {
	if list, ok := err.(*diag.List); ok {
		for _, e := range list.Errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
