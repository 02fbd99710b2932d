package types

// Confirmation acknowledges a mutation that has no entity payload of its own.
type Confirmation struct {
	Message string `json:"message"`
}

func Confirm(message string) *Confirmation {
	return &Confirmation{Message: message}
}
