package cli

import (
	"fmt"
	"os"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	"github.com/Earthcomputer/classfile"
)

var (
	skipCode   bool
	skipDebug  bool
	skipFrames bool
	disasm     bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.class>",
	Short: "Print a class file's header, fields, methods, and (optionally) bytecode",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&skipCode, "skip-code", false, "omit Code attribute decoding")
	dumpCmd.Flags().BoolVar(&skipDebug, "skip-debug", false, "omit line numbers, local variable tables, and source attributes")
	dumpCmd.Flags().BoolVar(&skipFrames, "skip-frames", false, "omit stack map frame decoding")
	dumpCmd.Flags().BoolVar(&disasm, "disasm", false, "print decoded instructions for every method")
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mapping %s: %w", args[0], err)
	}
	defer data.Unmap()

	var flags classfile.ReaderFlags
	if skipCode {
		flags |= classfile.SkipCode
	}
	if skipDebug {
		flags |= classfile.SkipDebug
	}
	if skipFrames {
		flags |= classfile.SkipFrames
	}

	reader, err := classfile.NewReader(data, flags)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	events, err := reader.Events()
	if err != nil {
		return err
	}

	return dumpClass(events)
}

func dumpClass(it *classfile.ClassIterator) error {
	for {
		ev, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch ev.Kind {
		case classfile.ClassHeader:
			fmt.Printf("class %s extends %s (version %d.%d, access %#04x)\n",
				ev.Name, superOrNone(ev), ev.MajorVersion, ev.MinorVersion, uint16(ev.Access))
			for _, iface := range ev.Interfaces {
				fmt.Printf("  implements %s\n", iface)
			}
		case classfile.ClassSource:
			if ev.HasSourceFile {
				fmt.Printf("  source file: %s\n", ev.SourceFile)
			}
		case classfile.ClassFields:
			if err := dumpFields(ev.Fields); err != nil {
				return err
			}
		case classfile.ClassMethods:
			if err := dumpMethods(ev.Methods); err != nil {
				return err
			}
		}
	}
}

func superOrNone(ev classfile.ClassEvent) string {
	if !ev.HasSuperName {
		return "(none)"
	}
	return ev.SuperName
}

func dumpFields(it *classfile.FieldIterator) error {
	for {
		ev, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if ev.Kind == classfile.FieldHeader {
			if disasm {
				if ft, err := classfile.ParseFieldDescriptor(ev.Desc); err == nil {
					fmt.Printf("  field %s: %s (access %#04x)\n", ev.Name, ft, uint16(ev.Access))
					continue
				}
			}
			fmt.Printf("  field %s %s (access %#04x)\n", ev.Name, ev.Desc, uint16(ev.Access))
		}
	}
}

func dumpMethods(it *classfile.MethodIterator) error {
	for {
		ev, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch ev.Kind {
		case classfile.MethodHeader:
			if disasm {
				if mt, err := classfile.ParseMethodDescriptor(ev.Desc); err == nil {
					params := make([]string, len(mt.Parameters))
					for i, p := range mt.Parameters {
						params[i] = p.String()
					}
					fmt.Printf("  method %s(%s) %s (access %#04x)\n", ev.Name, strings.Join(params, ", "), mt.Return, uint16(ev.Access))
					break
				}
			}
			fmt.Printf("  method %s%s (access %#04x)\n", ev.Name, ev.Desc, uint16(ev.Access))
		case classfile.MethodInsn:
			if disasm {
				fmt.Printf("    %4d: opcode %d\n", ev.PC, ev.Instruction.Opcode)
			}
		case classfile.MethodLineNumber:
			if disasm {
				fmt.Printf("    line %d\n", ev.Line)
			}
		}
	}
}
