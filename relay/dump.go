// File: relay/dump.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import "context"

// Dump binds lazily, then forever waits for read readiness and runs one
// Receive step per positive readiness count. It returns only on failure or
// when ctx is done, which is checked between waits.
func Dump(ctx context.Context, r *Receiver) error {
	if err := r.Open(); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ready, err := r.Wait()
		if err != nil {
			return err
		}
		if ready == 0 {
			continue
		}
		status, err := r.Receive(ctx)
		if err != nil {
			return err
		}
		if status != Forwarded {
			r.s.log.Debug().Stringer("status", status).Msg("receive")
		}
	}
}
