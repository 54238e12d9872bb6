package classfile

import "github.com/Earthcomputer/classfile/access"

type moduleSection struct {
	offset int
	count  uint16
}

// ModuleIterator walks a module-info class's requires, exports, opens,
// uses, and provides directives in declaration order.
type ModuleIterator struct {
	cursor byteCursor
	cp     *ConstantPool

	requires moduleSection
	exports  moduleSection
	opens    moduleSection
	uses     moduleSection
	provides moduleSection

	state int
	index int
}

const (
	moduleStateRequires = iota
	moduleStateExports
	moduleStateOpens
	moduleStateUses
	moduleStateProvides
	moduleStateDone
)

// newModuleInfo decodes a Module attribute's header and pre-scans its five
// variable-length sections (exports/opens entries are themselves
// variable-length, so section boundaries must be walked once up front,
// mirroring the top-level attribute scan's own two-pass shape).
func newModuleInfo(cursor byteCursor, cp *ConstantPool, payloadOffset int) (ModuleInfo, error) {
	nameIndex, err := cursor.u16(payloadOffset)
	if err != nil {
		return ModuleInfo{}, err
	}
	name, err := cp.Module(nameIndex)
	if err != nil {
		return ModuleInfo{}, err
	}
	flags, err := cursor.u16(payloadOffset + 2)
	if err != nil {
		return ModuleInfo{}, err
	}
	versionIndex, err := cursor.u16(payloadOffset + 4)
	if err != nil {
		return ModuleInfo{}, err
	}
	var version string
	hasVersion := versionIndex != 0
	if hasVersion {
		version, err = cp.Utf8(versionIndex)
		if err != nil {
			return ModuleInfo{}, err
		}
	}

	pos := payloadOffset + 6

	requiresCount, err := cursor.u16(pos)
	if err != nil {
		return ModuleInfo{}, err
	}
	requires := moduleSection{offset: pos + 2, count: requiresCount}
	pos = requires.offset + 6*int(requiresCount)

	exportsCount, err := cursor.u16(pos)
	if err != nil {
		return ModuleInfo{}, err
	}
	exports := moduleSection{offset: pos + 2, count: exportsCount}
	pos = exports.offset
	for i := 0; i < int(exportsCount); i++ {
		toCount, err := cursor.u16(pos + 4)
		if err != nil {
			return ModuleInfo{}, err
		}
		pos += 6 + 2*int(toCount)
	}

	opensCount, err := cursor.u16(pos)
	if err != nil {
		return ModuleInfo{}, err
	}
	opens := moduleSection{offset: pos + 2, count: opensCount}
	pos = opens.offset
	for i := 0; i < int(opensCount); i++ {
		toCount, err := cursor.u16(pos + 4)
		if err != nil {
			return ModuleInfo{}, err
		}
		pos += 6 + 2*int(toCount)
	}

	usesCount, err := cursor.u16(pos)
	if err != nil {
		return ModuleInfo{}, err
	}
	uses := moduleSection{offset: pos + 2, count: usesCount}
	pos = uses.offset + 2*int(usesCount)

	providesCount, err := cursor.u16(pos)
	if err != nil {
		return ModuleInfo{}, err
	}
	provides := moduleSection{offset: pos + 2, count: providesCount}

	it := &ModuleIterator{
		cursor: cursor, cp: cp,
		requires: requires, exports: exports, opens: opens, uses: uses, provides: provides,
	}

	return ModuleInfo{
		Name: name, Access: access.Flags(flags), Version: version, HasVersion: hasVersion,
		Iterator: it,
	}, nil
}

func readModuleRelationList(cursor byteCursor, cp *ConstantPool, entryOffset int) (ModuleRelationEntry, int, error) {
	packageIndex, err := cursor.u16(entryOffset)
	if err != nil {
		return ModuleRelationEntry{}, 0, err
	}
	flags, err := cursor.u16(entryOffset + 2)
	if err != nil {
		return ModuleRelationEntry{}, 0, err
	}
	toCount, err := cursor.u16(entryOffset + 4)
	if err != nil {
		return ModuleRelationEntry{}, 0, err
	}
	pkg, err := cp.Package(packageIndex)
	if err != nil {
		return ModuleRelationEntry{}, 0, err
	}
	to := make([]string, toCount)
	pos := entryOffset + 6
	for i := 0; i < int(toCount); i++ {
		idx, err := cursor.u16(pos)
		if err != nil {
			return ModuleRelationEntry{}, 0, err
		}
		to[i], err = cp.Module(idx)
		if err != nil {
			return ModuleRelationEntry{}, 0, err
		}
		pos += 2
	}
	return ModuleRelationEntry{Package: pkg, Access: access.Flags(flags), To: to}, entryOffset + 6 + 2*int(toCount), nil
}

// Next returns the next requires/exports/opens/uses/provides directive, in
// declaration order, or ok=false once exhausted.
func (it *ModuleIterator) Next() (ModuleEvent, bool, error) {
	for {
		switch it.state {
		case moduleStateRequires:
			if it.index >= int(it.requires.count) {
				it.state, it.index = moduleStateExports, 0
				continue
			}
			entryOffset := it.requires.offset + 6*it.index
			it.index++
			moduleIndex, err := it.cursor.u16(entryOffset)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			flags, err := it.cursor.u16(entryOffset + 2)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			versionIndex, err := it.cursor.u16(entryOffset + 4)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			name, err := it.cp.Module(moduleIndex)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			var version string
			hasVersion := versionIndex != 0
			if hasVersion {
				version, err = it.cp.Utf8(versionIndex)
				if err != nil {
					return ModuleEvent{}, false, err
				}
			}
			return ModuleEvent{Kind: ModuleRequire, Require: ModuleRequireEntry{
				Module: name, Access: access.Flags(flags), Version: version, HasVersion: hasVersion,
			}}, true, nil

		case moduleStateExports:
			if it.index >= int(it.exports.count) {
				it.state, it.index = moduleStateOpens, 0
				continue
			}
			entry, next, err := readModuleRelationList(it.cursor, it.cp, it.exportsOffsetAt(it.index))
			if err != nil {
				return ModuleEvent{}, false, err
			}
			_ = next
			it.index++
			return ModuleEvent{Kind: ModuleExports, Relation: entry}, true, nil

		case moduleStateOpens:
			if it.index >= int(it.opens.count) {
				it.state, it.index = moduleStateUses, 0
				continue
			}
			entry, next, err := readModuleRelationList(it.cursor, it.cp, it.opensOffsetAt(it.index))
			if err != nil {
				return ModuleEvent{}, false, err
			}
			_ = next
			it.index++
			return ModuleEvent{Kind: ModuleOpens, Relation: entry}, true, nil

		case moduleStateUses:
			if it.index >= int(it.uses.count) {
				it.state, it.index = moduleStateProvides, 0
				continue
			}
			entryOffset := it.uses.offset + 2*it.index
			it.index++
			classIndex, err := it.cursor.u16(entryOffset)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			name, err := it.cp.Class(classIndex)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			return ModuleEvent{Kind: ModuleUses, Use: name}, true, nil

		case moduleStateProvides:
			if it.index >= int(it.provides.count) {
				it.state = moduleStateDone
				continue
			}
			entryOffset, err := it.providesOffsetAt(it.index)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			classIndex, err := it.cursor.u16(entryOffset)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			withCount, err := it.cursor.u16(entryOffset + 2)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			service, err := it.cp.Class(classIndex)
			if err != nil {
				return ModuleEvent{}, false, err
			}
			with := make([]string, withCount)
			pos := entryOffset + 4
			for i := 0; i < int(withCount); i++ {
				idx, err := it.cursor.u16(pos)
				if err != nil {
					return ModuleEvent{}, false, err
				}
				with[i], err = it.cp.Class(idx)
				if err != nil {
					return ModuleEvent{}, false, err
				}
				pos += 2
			}
			it.index++
			return ModuleEvent{Kind: ModuleProvides, Provides: ModuleProvidesEntry{Service: service, With: with}}, true, nil

		default:
			return ModuleEvent{}, false, nil
		}
	}
}

// exportsOffsetAt/opensOffsetAt/providesOffsetAt re-walk from the section
// start to the i'th variable-length entry. Module directive lists are small
// in practice, so re-walking on each Next call keeps the iterator itself
// free of a separately cached offset table.
func (it *ModuleIterator) exportsOffsetAt(i int) int {
	pos := it.exports.offset
	for j := 0; j < i; j++ {
		toCount, _ := it.cursor.u16(pos + 4)
		pos += 6 + 2*int(toCount)
	}
	return pos
}

func (it *ModuleIterator) opensOffsetAt(i int) int {
	pos := it.opens.offset
	for j := 0; j < i; j++ {
		toCount, _ := it.cursor.u16(pos + 4)
		pos += 6 + 2*int(toCount)
	}
	return pos
}

func (it *ModuleIterator) providesOffsetAt(i int) (int, error) {
	pos := it.provides.offset
	for j := 0; j < i; j++ {
		withCount, err := it.cursor.u16(pos + 2)
		if err != nil {
			return 0, err
		}
		pos += 4 + 2*int(withCount)
	}
	return pos, nil
}
