// Command vmgen emits hand-written assembly source text for a handful of
// exercise programs, used to sanity-check vmasm end to end: a fibonacci
// printer, a syscall sweep, and an interrupt-return round trip.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var programs = map[string]func() string{
	"fibonacci": fibonacciProgram,
	"syscalls":  syscallsProgram,
	"interrupt": interruptProgram,
}

func fibonacciProgram() string {
	return `; prints the first 25 fibonacci numbers, one per line, then halts
.text
start:
    LOAD R5, #0
    LOAD R6, #1
    LOAD R9, #25

loop:
    MOVE ACC, R5
    SYSCALL #1
    LOAD ACC, #10
    SYSCALL #0

    LOAD ACC, #0
    ADD ACC, R5
    ADD ACC, R6
    MOVE R5, R6
    MOVE R6, ACC

    LOAD R8, #1
    SUB R9, R8
    JNZ loop

    HALT
`
}

func syscallsProgram() string {
	return `; exercises the character, integer and newline print syscalls
.text
start:
    LOAD ACC, #72   ; 'H'
    SYSCALL #0
    LOAD ACC, #105  ; 'i'
    SYSCALL #0
    LOAD ACC, #10
    SYSCALL #0

    LOAD ACC, #42
    SYSCALL #1
    LOAD ACC, #10
    SYSCALL #0

    HALT
`
}

func interruptProgram() string {
	return `; enables interrupts, raises one, and returns via IRET
.text
start:
    STI
    INT #1
    HALT

.org 0x1000
handler:
    PUSHA
    LOAD ACC, #33   ; '!'
    SYSCALL #0
    POPA
    IRET
`
}

func main() {
	var which string
	rootCmd := &cobra.Command{
		Use:   "vmgen",
		Short: "Generate exercise assembly source for vmasm",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := programs[which]
			if !ok {
				return fmt.Errorf("unknown program %q (want one of: fibonacci, syscalls, interrupt)", which)
			}
			fmt.Print(gen())
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&which, "program", "p", "fibonacci", "Which exercise program to emit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
