// Package sms abstracts the outbound SMS channel. The concrete provider is
// chosen once at construction; there are no mutable mode flags.
package sms

import "context"

type SendResult struct {
	ID        string
	Status    string
	Simulated bool
}

// Provider sends one message to one recipient. Implementations must be safe
// for concurrent use by the fanout workers.
type Provider interface {
	Send(ctx context.Context, to, body string) (SendResult, error)
}
