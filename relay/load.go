// File: relay/load.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// LoadStats counts what Load handed to the send path successfully.
type LoadStats struct {
	Records int
	Bytes   int64
}

// RecordSender is the send path Load feeds.
type RecordSender interface {
	Send(ctx context.Context, record []byte) error
}

// Load reads newline-terminated records from in and sends each one, delimiter
// included, stopping at end-of-input or at the first send failure. A final
// line without a delimiter is sent as is. Empty input sends nothing, so no
// connection is ever attempted.
func Load(ctx context.Context, in io.Reader, s RecordSender) (LoadStats, error) {
	var st LoadStats
	br := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		line, rerr := br.ReadBytes('\n')
		if len(line) > 0 {
			if err := s.Send(ctx, line); err != nil {
				return st, err
			}
			st.Records++
			st.Bytes += int64(len(line))
		}
		if rerr == io.EOF {
			return st, nil
		}
		if rerr != nil {
			return st, fmt.Errorf("read input: %w", rerr)
		}
	}
}
