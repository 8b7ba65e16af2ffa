package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/bakery/pkg"
	"github.com/appetiteclub/bakery/pkg/event"
)

type configReader interface {
	GetStringOrDef(key, def string) string
}

// Replay prints the retained event backlog. It reads without acknowledging,
// so repeated runs print the same backlog and desk consumers are untouched.
func Replay(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	limit, err := strconv.Atoi(config.GetStringOrDef("replay.limit", "100"))
	if err != nil {
		return fmt.Errorf("invalid replay.limit: %w", err)
	}

	stream, err := pkg.NewNATSStream(ctx, replayStreamConfig(config))
	if err != nil {
		return err
	}
	defer stream.Close()

	msgs, err := stream.Fetch(ctx, limit)
	if err != nil {
		logger.Error("backlog fetch incomplete", "error", err)
	}

	PrintBacklog(os.Stdout, msgs)
	logger.Info("backlog printed", "messages", len(msgs))
	return nil
}

func replayStreamConfig(config configReader) pkg.NATSStreamConfig {
	return pkg.NATSStreamConfig{
		URL:        config.GetStringOrDef("nats.url", "nats://localhost:4222"),
		StreamName: config.GetStringOrDef("nats.stream.name", "ORDERDESK"),
		Prefix:     config.GetStringOrDef("nats.prefix", event.EventsTopic),
		FetchWait:  2 * time.Second,
	}
}

type backlogFields struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	ItemID      string `json:"itemId"`
	Status      string `json:"status"`
}

// PrintBacklog writes one line per message: sequence, time, event, order and status.
func PrintBacklog(out io.Writer, msgs []events.StreamMessage) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tTIME\tEVENT\tORDER\tITEM\tSTATUS")

	for _, msg := range msgs {
		env, err := event.Decode(msg.Data)
		if err != nil {
			fmt.Fprintf(w, "%d\t-\t<malformed>\t\t\t\n", msg.Sequence)
			continue
		}

		var f backlogFields
		_ = json.Unmarshal(env.Data, &f)
		order := f.OrderID
		if f.OrderNumber != "" {
			order = f.OrderNumber
		}

		ts := time.Unix(0, msg.Timestamp).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", msg.Sequence, ts, env.Event, order, f.ItemID, f.Status)
	}
	w.Flush()
}
