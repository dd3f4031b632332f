package main

import (
	"fmt"
	"log"
	"os"

	"github.com/muesli/termenv"
)

// console prints the status markers, coloured when stdout is a terminal
type console struct {
	out *termenv.Output
}

func newConsole() *console {
	return &console{out: termenv.NewOutput(os.Stdout)}
}

func (c *console) marker(m, hex string) string {
	return c.out.String(m).Foreground(c.out.Color(hex)).Bold().String()
}

func (c *console) Info(format string, args ...any) {
	fmt.Printf("%s %s\n", c.marker("[*]", "#5fafff"), fmt.Sprintf(format, args...))
}

func (c *console) Step(format string, args ...any) {
	fmt.Printf("%s %s\n", c.marker("[>]", "#87d7af"), fmt.Sprintf(format, args...))
}

func (c *console) Success(format string, args ...any) {
	fmt.Printf("%s %s\n", c.marker("[+++]", "#5fd75f"), fmt.Sprintf(format, args...))
}

func (c *console) Warn(format string, args ...any) {
	log.Printf("%s %s", c.marker("[!]", "#ffaf00"), fmt.Sprintf(format, args...))
}

func (c *console) Fatal(format string, args ...any) {
	log.Fatalf("%s %s", c.marker("[-]", "#ff5f5f"), fmt.Sprintf(format, args...))
}
