package core

import "context"

type Sink interface {
	// Delivers one received SMS. Implementations must release any resources
	// they acquire before returning.
	Deliver(ctx context.Context, sms SMS) error
}
