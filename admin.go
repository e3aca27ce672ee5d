package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

const adminDoc = `Warbler moderation tool

Usage:
  warbler admin dump
  warbler admin delete-message <message_id>...
  warbler admin delete-user <user_id>...
  warbler admin help
Commands:
  dump             Write every message as CSV (id,user_id,username,timestamp,text).
  delete-message   Remove the given messages.
  delete-user      Remove the given users with their messages, follows and likes.`

// runAdmin executes a moderation command. Invalid ids are reported to out
// and skipped; the first database failure aborts the run.
func runAdmin(ctx context.Context, args []string, out io.Writer, users *UserStore, messages *MessageStore) error {
	if len(args) == 0 {
		fmt.Fprintln(out, adminDoc)
		return nil
	}

	switch args[0] {
	case "help", "-h":
		fmt.Fprintln(out, adminDoc)
		return nil
	case "dump":
		return dumpMessages(ctx, out, messages)
	case "delete-message":
		return forEachID(out, args[1:], func(id int64) error {
			if err := messages.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted message: %d\n", id)
			return nil
		})
	case "delete-user":
		return forEachID(out, args[1:], func(id int64) error {
			if err := users.Delete(ctx, users.db, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted user: %d\n", id)
			return nil
		})
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func dumpMessages(ctx context.Context, out io.Writer, messages *MessageStore) error {
	all, err := messages.All(ctx)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	for _, m := range all {
		err := w.Write([]string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(m.UserID, 10),
			m.Username,
			m.Timestamp.UTC().Format(time.RFC3339),
			m.Text,
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func forEachID(out io.Writer, args []string, fn func(id int64) error) error {
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(out, "Invalid id: %s\n", arg)
			continue
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}
