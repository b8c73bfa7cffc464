package trace

import "github.com/ethereum/go-ethereum/common"

// Find returns every frame in the tree rooted at root for which match
// returns true, in depth-first pre-order. The traversal uses an explicit
// stack: simulation traces are externally supplied and may be nested
// hundreds of frames deep or contain thousands of siblings, neither of
// which may overflow the goroutine stack or loop forever. A nil root or a
// frame without children is simply an empty subtree.
func Find(root *Call, match func(*Call) bool) []*Call {
	if root == nil {
		return nil
	}
	var found []*Call
	stack := []*Call{root}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if frame == nil {
			continue
		}
		if match(frame) {
			found = append(found, frame)
		}
		// Push children in reverse so the leftmost child is visited first.
		for i := len(frame.Calls) - 1; i >= 0; i-- {
			stack = append(stack, &frame.Calls[i])
		}
	}
	return found
}

// FindCallsTo returns every frame whose destination is one of targets.
func FindCallsTo(root *Call, targets ...common.Address) []*Call {
	return Find(root, func(c *Call) bool {
		to, ok := c.ToAddress()
		if !ok {
			return false
		}
		for _, target := range targets {
			if to == target {
				return true
			}
		}
		return false
	})
}
