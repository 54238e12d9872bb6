// Command classdump prints a human-readable summary of a compiled Java
// class file: its header, fields, methods, and (with -disasm) bytecode.
package main

import "github.com/Earthcomputer/classfile/internal/cli"

func main() {
	cli.Execute()
}
