package backend

import "fmt"

// verifyFunction checks the structural invariants spec §6's "function
// verification" capability promises: the function has at least one block,
// every block is non-empty and ends in exactly one terminator, Jump/Brif
// targets are non-nil, and StackAddr slot indices are in range. Call
// callees are not checked. It returns a human-readable defect description,
// or "" if f is well-formed.
func verifyFunction(f *Function) string {
	if len(f.blocks) == 0 {
		return "function has no blocks"
	}
	for _, b := range f.blocks {
		if len(b.instrs) == 0 {
			return fmt.Sprintf("block %d has no instructions", b.id)
		}
		for i, instr := range b.instrs {
			if isTerminator(instr.Op) && i != len(b.instrs)-1 {
				return fmt.Sprintf("block %d: terminator %s is not the last instruction", b.id, instr.Op)
			}
			switch instr.Op {
			case StackAddr:
				if instr.Slot < 0 || instr.Slot >= len(f.stackSlots) {
					return fmt.Sprintf("block %d: stack slot %d out of range", b.id, instr.Slot)
				}
			case Jump:
				if instr.Target == nil {
					return fmt.Sprintf("block %d: jump with no target", b.id)
				}
			case Brif:
				if instr.Target == nil || instr.ElseTarget == nil {
					return fmt.Sprintf("block %d: brif missing a target", b.id)
				}
			}
		}
		last := b.instrs[len(b.instrs)-1]
		if !isTerminator(last.Op) {
			return fmt.Sprintf("block %d does not end in a terminator", b.id)
		}
	}
	return ""
}
