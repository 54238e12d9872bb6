package classfile

import "github.com/Earthcomputer/classfile/access"

const (
	classStateHeader = iota
	classStateSynthetic
	classStateDeprecated
	classStateSource
	classStateModule
	classStateNestHost
	classStateOuterClass
	classStateAnnotations
	classStateTypeAnnotations
	classStateCustomAttributes
	classStateNestMembers
	classStatePermittedSubclasses
	classStateInnerClasses
	classStateRecordComponents
	classStateFields
	classStateMethods
	classStateEnd
	classStateDone
)

// ClassIterator is the root, single-threaded pull iterator over one class
// file's events, implementing the fixed ordering of §4.4 as a switch over
// an internal ordinal state.
type ClassIterator struct {
	reader *Reader
	state  int
}

func combinedAnnotations(cursor byteCursor, cp *ConstantPool, idx *attributeIndex) ([]AnnotationEntry, error) {
	var out []AnnotationEntry
	if slot, ok := idx.slot("RuntimeVisibleAnnotations"); ok {
		anns, err := readAnnotationList(cursor, cp, slot.offset)
		if err != nil {
			return nil, err
		}
		for _, a := range anns {
			out = append(out, AnnotationEntry{Visible: true, Annotation: a})
		}
	}
	if slot, ok := idx.slot("RuntimeInvisibleAnnotations"); ok {
		anns, err := readAnnotationList(cursor, cp, slot.offset)
		if err != nil {
			return nil, err
		}
		for _, a := range anns {
			out = append(out, AnnotationEntry{Visible: false, Annotation: a})
		}
	}
	return out, nil
}

func combinedTypeAnnotations(cursor byteCursor, cp *ConstantPool, idx *attributeIndex) ([]TypeAnnotationEntry, []codeLocation, error) {
	var out []TypeAnnotationEntry
	var locs []codeLocation
	if slot, ok := idx.slot("RuntimeVisibleTypeAnnotations"); ok {
		anns, ls, err := readTypeAnnotationList(cursor, cp, slot.offset)
		if err != nil {
			return nil, nil, err
		}
		for i, a := range anns {
			out = append(out, TypeAnnotationEntry{Visible: true, TypeAnnotation: a})
			locs = append(locs, ls[i])
		}
	}
	if slot, ok := idx.slot("RuntimeInvisibleTypeAnnotations"); ok {
		anns, ls, err := readTypeAnnotationList(cursor, cp, slot.offset)
		if err != nil {
			return nil, nil, err
		}
		for i, a := range anns {
			out = append(out, TypeAnnotationEntry{Visible: false, TypeAnnotation: a})
			locs = append(locs, ls[i])
		}
	}
	return out, locs, nil
}

func readClassNames(cursor byteCursor, cp *ConstantPool, offset int) ([]string, error) {
	count, err := cursor.u16(offset)
	if err != nil {
		return nil, err
	}
	names := make([]string, count)
	for i := 0; i < int(count); i++ {
		idx, err := cursor.u16(offset + 2 + 2*i)
		if err != nil {
			return nil, err
		}
		names[i], err = cp.Class(idx)
		if err != nil {
			return nil, err
		}
	}
	return names, nil
}

// Next returns the next class-level event, or ok=false once the sequence
// is exhausted.
func (it *ClassIterator) Next() (ClassEvent, bool, error) {
	r := it.reader
	cursor, cp, idx := r.cursor, r.cp, r.classAttrs

	for {
		switch it.state {
		case classStateHeader:
			it.state = classStateSynthetic
			accessFlags, err := cursor.u16(r.metadataStart)
			if err != nil {
				return ClassEvent{}, false, err
			}
			nameIndex, err := cursor.u16(r.metadataStart + 2)
			if err != nil {
				return ClassEvent{}, false, err
			}
			name, err := cp.Class(nameIndex)
			if err != nil {
				return ClassEvent{}, false, err
			}
			superIndex, err := cursor.u16(r.metadataStart + 4)
			if err != nil {
				return ClassEvent{}, false, err
			}
			superName, hasSuper, err := cp.OptionalClass(superIndex)
			if err != nil {
				return ClassEvent{}, false, err
			}
			interfaceCount, err := cursor.u16(r.metadataStart + 6)
			if err != nil {
				return ClassEvent{}, false, err
			}
			interfaces := make([]string, interfaceCount)
			for i := 0; i < int(interfaceCount); i++ {
				idx2, err := cursor.u16(r.metadataStart + 8 + 2*i)
				if err != nil {
					return ClassEvent{}, false, err
				}
				interfaces[i], err = cp.Class(idx2)
				if err != nil {
					return ClassEvent{}, false, err
				}
			}
			major, _ := cursor.u16(6)
			minor, _ := cursor.u16(4)
			return ClassEvent{
				Kind: ClassHeader, MinorVersion: minor, MajorVersion: major,
				Access: access.Flags(accessFlags), Name: name,
				SuperName: superName, HasSuperName: hasSuper, Interfaces: interfaces,
			}, true, nil

		case classStateSynthetic:
			it.state = classStateDeprecated
			accessFlags, err := cursor.u16(r.metadataStart)
			if err != nil {
				return ClassEvent{}, false, err
			}
			_, syntheticAttr := idx.slot("Synthetic")
			if access.Flags(accessFlags).Any(access.Synthetic) || syntheticAttr {
				return ClassEvent{Kind: ClassSynthetic}, true, nil
			}

		case classStateDeprecated:
			it.state = classStateSource
			if _, ok := idx.slot("Deprecated"); ok {
				return ClassEvent{Kind: ClassDeprecated}, true, nil
			}

		case classStateSource:
			it.state = classStateModule
			sfSlot, hasSF := idx.slot("SourceFile")
			sdeSlot, hasSDE := idx.slot("SourceDebugExtension")
			if !hasSF && !hasSDE {
				continue
			}
			ev := ClassEvent{Kind: ClassSource}
			if hasSF {
				nameIndex, err := cursor.u16(sfSlot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				ev.SourceFile, err = cp.Utf8(nameIndex)
				if err != nil {
					return ClassEvent{}, false, err
				}
				ev.HasSourceFile = true
			}
			if hasSDE {
				length, err := cursor.u32(sdeSlot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				data, err := cursor.bytes(sdeSlot.offset+4, int(length))
				if err != nil {
					return ClassEvent{}, false, err
				}
				ev.SourceDebugExtension = data
				ev.HasSourceDebugExtension = true
			}
			return ev, true, nil

		case classStateModule:
			it.state = classStateNestHost
			modSlot, ok := idx.slot("Module")
			if !ok {
				continue
			}
			info, err := newModuleInfo(cursor, cp, modSlot.offset)
			if err != nil {
				return ClassEvent{}, false, err
			}
			if mcSlot, ok := idx.slot("ModuleMainClass"); ok {
				mcIndex, err := cursor.u16(mcSlot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				info.MainClass, err = cp.Class(mcIndex)
				if err != nil {
					return ClassEvent{}, false, err
				}
				info.HasMainClass = true
			}
			if pkgSlot, ok := idx.slot("ModulePackages"); ok {
				count, err := cursor.u16(pkgSlot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				pkgs := make([]string, count)
				for i := 0; i < int(count); i++ {
					pIdx, err := cursor.u16(pkgSlot.offset + 2 + 2*i)
					if err != nil {
						return ClassEvent{}, false, err
					}
					pkgs[i], err = cp.Package(pIdx)
					if err != nil {
						return ClassEvent{}, false, err
					}
				}
				info.Packages = pkgs
			}
			return ClassEvent{Kind: ClassModule, Module: info}, true, nil

		case classStateNestHost:
			it.state = classStateOuterClass
			if slot, ok := idx.slot("NestHost"); ok {
				nameIndex, err := cursor.u16(slot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				host, err := cp.Class(nameIndex)
				if err != nil {
					return ClassEvent{}, false, err
				}
				return ClassEvent{Kind: ClassNestHost, NestHost: host}, true, nil
			}

		case classStateOuterClass:
			it.state = classStateAnnotations
			if slot, ok := idx.slot("EnclosingMethod"); ok {
				classIndex, err := cursor.u16(slot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				methodIndex, err := cursor.u16(slot.offset + 2)
				if err != nil {
					return ClassEvent{}, false, err
				}
				owner, err := cp.Class(classIndex)
				if err != nil {
					return ClassEvent{}, false, err
				}
				ev := ClassEvent{Kind: ClassOuterClass, OuterOwner: owner}
				if methodIndex != 0 {
					nat, err := cp.NameAndType(methodIndex)
					if err != nil {
						return ClassEvent{}, false, err
					}
					ev.OuterName, ev.OuterDesc, ev.HasOuterMethod = nat.Name, nat.Desc, true
				}
				return ev, true, nil
			}

		case classStateAnnotations:
			it.state = classStateTypeAnnotations
			anns, err := combinedAnnotations(cursor, cp, idx)
			if err != nil {
				return ClassEvent{}, false, err
			}
			if len(anns) > 0 {
				return ClassEvent{Kind: ClassAnnotations, Annotations: anns}, true, nil
			}

		case classStateTypeAnnotations:
			it.state = classStateCustomAttributes
			anns, _, err := combinedTypeAnnotations(cursor, cp, idx)
			if err != nil {
				return ClassEvent{}, false, err
			}
			if len(anns) > 0 {
				return ClassEvent{Kind: ClassTypeAnnotations, TypeAnnotations: anns}, true, nil
			}

		case classStateCustomAttributes:
			it.state = classStateNestMembers
			attrs, err := idx.unknownAttributes(cursor)
			if err != nil {
				return ClassEvent{}, false, err
			}
			if len(attrs) > 0 {
				return ClassEvent{Kind: ClassCustomAttributes, CustomAttributes: attrs}, true, nil
			}

		case classStateNestMembers:
			it.state = classStatePermittedSubclasses
			if slot, ok := idx.slot("NestMembers"); ok {
				names, err := readClassNames(cursor, cp, slot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				return ClassEvent{Kind: ClassNestMembers, ClassNames: names}, true, nil
			}

		case classStatePermittedSubclasses:
			it.state = classStateInnerClasses
			if slot, ok := idx.slot("PermittedSubclasses"); ok {
				names, err := readClassNames(cursor, cp, slot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				return ClassEvent{Kind: ClassPermittedSubclasses, ClassNames: names}, true, nil
			}

		case classStateInnerClasses:
			it.state = classStateRecordComponents
			if slot, ok := idx.slot("InnerClasses"); ok {
				count, err := cursor.u16(slot.offset)
				if err != nil {
					return ClassEvent{}, false, err
				}
				entries := make([]InnerClassEntry, count)
				for i := 0; i < int(count); i++ {
					base := slot.offset + 2 + 8*i
					innerIndex, err := cursor.u16(base)
					if err != nil {
						return ClassEvent{}, false, err
					}
					outerIndex, err := cursor.u16(base + 2)
					if err != nil {
						return ClassEvent{}, false, err
					}
					simpleNameIndex, err := cursor.u16(base + 4)
					if err != nil {
						return ClassEvent{}, false, err
					}
					flags, err := cursor.u16(base + 6)
					if err != nil {
						return ClassEvent{}, false, err
					}
					innerName, err := cp.Class(innerIndex)
					if err != nil {
						return ClassEvent{}, false, err
					}
					entry := InnerClassEntry{InnerName: innerName, Access: access.Flags(flags)}
					if outerIndex != 0 {
						entry.OuterName, err = cp.Class(outerIndex)
						if err != nil {
							return ClassEvent{}, false, err
						}
						entry.HasOuterName = true
					}
					if simpleNameIndex != 0 {
						entry.InnerSimpleName, err = cp.Utf8(simpleNameIndex)
						if err != nil {
							return ClassEvent{}, false, err
						}
						entry.HasInnerSimpleName = true
					}
					entries[i] = entry
				}
				return ClassEvent{Kind: ClassInnerClasses, InnerClasses: entries}, true, nil
			}

		case classStateRecordComponents:
			it.state = classStateFields
			if slot, ok := idx.slot("Record"); ok {
				return ClassEvent{Kind: ClassRecordComponents, RecordComponents: newRecordComponentIterator(r, slot.offset)}, true, nil
			}

		case classStateFields:
			it.state = classStateMethods
			return ClassEvent{Kind: ClassFields, Fields: newFieldIterator(r)}, true, nil

		case classStateMethods:
			it.state = classStateEnd
			return ClassEvent{Kind: ClassMethods, Methods: newMethodIterator(r)}, true, nil

		case classStateEnd:
			it.state = classStateDone
			return ClassEvent{Kind: ClassEnd}, true, nil

		default:
			return ClassEvent{}, false, nil
		}
	}
}
