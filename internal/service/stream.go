package service

import (
	"context"

	"github.com/mmynk/ekkora/internal/workspace"
)

// pump attaches a live view and sends its latest value until ctx ends.
// Values that arrive while a send is in flight collapse into the newest one,
// so a slow client never holds up the store.
func pump[T any](
	ctx context.Context,
	open func(onChange func(T, error)) (*workspace.View[T], error),
	send func(T) error,
) error {
	mailbox := make(chan T, 1)
	view, err := open(func(v T, err error) {
		if err != nil {
			return
		}
		select {
		case <-mailbox:
		default:
		}
		// The view delivers on one goroutine, so the slot is free here.
		mailbox <- v
	})
	if err != nil {
		return toConnectError(err)
	}
	defer view.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-mailbox:
			if err := send(v); err != nil {
				return err
			}
		}
	}
}
