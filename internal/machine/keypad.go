package machine

// keypad holds the state of the 16 hexadecimal keys and the pending key wait.
type keypad struct {
	down [KeyCount]bool

	waiting bool
	target  uint8 // register that receives the key resolving the wait
}

// press sets the key down and returns whether this press resolved a pending
// wait. Only a transition from up to down resolves a wait.
func (k *keypad) press(key uint8) bool {
	wasDown := k.down[key]
	k.down[key] = true

	if !k.waiting || wasDown {
		return false
	}
	k.waiting = false
	return true
}

func (k *keypad) release(key uint8) {
	k.down[key] = false
}

func (k *keypad) wait(register uint8) {
	k.waiting = true
	k.target = register
}
