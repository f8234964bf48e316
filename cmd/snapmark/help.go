package main

import (
	"flag"
	"fmt"
	"strings"
)

// UsageError carries rendered usage text so the caller prints it
// without treating it as a failure exit.
type UsageError struct {
	usage string
}

func (e *UsageError) Error() string { return e.usage }

func rootUsage(r *root) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "usage: %s [flags] <command> [args]\n\n", r.program)
	sb.WriteString("commands:\n")
	sb.WriteString("  edit      open images or a project in the annotation editor\n")
	sb.WriteString("  render    composite a project or image to an output file\n")
	sb.WriteString("  capture   grab the screen and open it for annotation\n")
	sb.WriteString("  detect    find text regions in an image\n")
	sb.WriteString("  config    print the effective configuration\n")
	sb.WriteString("  version   print the program version\n\n")
	sb.WriteString("flags:\n")
	writeFlags(&sb, r.fs)
	return sb.String()
}

func writeFlags(sb *strings.Builder, fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(sb, "  -%s (default %q)\n      %s\n", f.Name, f.DefValue, f.Usage)
	})
}

func subUsage(program string, fs *flag.FlagSet, args string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "usage: %s [flags] %s\n\nflags:\n", program, args)
	writeFlags(&sb, fs)
	return sb.String()
}
