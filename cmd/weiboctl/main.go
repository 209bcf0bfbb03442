package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/session"
	"github.com/matheus3301/weibo/internal/tui/client"
	"github.com/matheus3301/weibo/internal/weibo"
	qrcode "github.com/skip2/go-qrcode"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	sessionName, err := session.Resolve(*sessionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	socketPath := session.SocketPath(sessionName)
	c, err := client.New(socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot connect to daemon for session %q: %v\n", sessionName, err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	// watch runs until interrupted; everything else gets a deadline.
	ctx := context.Background()
	if args[0] != "watch" {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	out := &output{w: os.Stdout, json: *jsonFlag}
	if err := run(ctx, c, out, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, c *client.Client, out *output, args []string) error {
	var err error
	switch args[0] {
	case "status":
		err = cmdStatus(ctx, c, out)
	case "auth":
		err = cmdAuth(ctx, c, out, args[1:])
	case "logout":
		err = cmdLogout(ctx, c, out)
	case "timeline":
		err = cmdTimeline(ctx, c, out, args[1:])
	case "cached":
		err = cmdCached(ctx, c, out, args[1:])
	case "post":
		err = cmdPost(ctx, c, out, args[1:])
	case "unread":
		err = cmdUnread(ctx, c, out)
	case "watch":
		err = cmdWatch(ctx, c, out, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		err = errUsage
	}
	if errors.Is(err, errUsage) {
		printUsage()
	}
	return err
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: weiboctl [--session <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status                     Show session status")
	fmt.Fprintln(os.Stderr, "  auth url [--qr]            Print the sign-in URL")
	fmt.Fprintln(os.Stderr, "  auth code <code>           Exchange an authorization code")
	fmt.Fprintln(os.Stderr, "  logout                     Forget the signed-in account")
	fmt.Fprintln(os.Stderr, "  timeline [--since N] [--max N]")
	fmt.Fprintln(os.Stderr, "                             Fetch one page of the home timeline")
	fmt.Fprintln(os.Stderr, "  cached [--limit N]         List cached statuses")
	fmt.Fprintln(os.Stderr, "  post [--image path] <text> Queue a status")
	fmt.Fprintln(os.Stderr, "  post status <client-id>    Show a queued post")
	fmt.Fprintln(os.Stderr, "  unread                     Show the unread count")
	fmt.Fprintln(os.Stderr, "  watch [namespace...]       Stream daemon events")
}

type output struct {
	w    io.Writer
	json bool
}

func (o *output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *output) encode(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}

func cmdStatus(ctx context.Context, c *client.Client, out *output) error {
	resp, err := c.Session.GetStatus(ctx, &rpc.GetStatusRequest{})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	out.printf("Session: %s\n", resp.Session)
	out.printf("Status:  %s\n", resp.Status)
	out.printf("Uptime:  %s\n", (time.Duration(resp.UptimeMs) * time.Millisecond).String())
	if resp.LoggedIn {
		out.printf("Account: %s (uid %s)\n", resp.ScreenName, resp.UID)
		if resp.ExpiresAtMs > 0 {
			out.printf("Expires: %s\n", time.UnixMilli(resp.ExpiresAtMs).Format(time.RFC3339))
		}
	} else {
		out.printf("Account: not signed in\n")
	}
	out.printf("Cached:  %d statuses\n", resp.CachedStatuses)
	out.printf("Pending: %d posts\n", resp.PendingPosts)
	return nil
}

func cmdAuth(ctx context.Context, c *client.Client, out *output, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "url":
		fs := flag.NewFlagSet("auth url", flag.ContinueOnError)
		qr := fs.Bool("qr", false, "also print a QR code")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		resp, err := c.Session.GetAuthorizeURL(ctx, &rpc.GetAuthorizeURLRequest{})
		if err != nil {
			return err
		}
		if out.json {
			out.encode(resp)
			return nil
		}
		out.printf("%s\n", resp.URL)
		if *qr {
			code, err := qrcode.New(resp.URL, qrcode.Low)
			if err != nil {
				return err
			}
			out.printf("%s", code.ToSmallString(false))
		}
		out.printf("After signing in you are sent to %s?code=...\n", resp.RedirectURI)
		out.printf("Run: weiboctl auth code <code>\n")
		return nil
	case "code":
		if len(args) < 2 {
			return errUsage
		}
		resp, err := c.Session.ExchangeCode(ctx, &rpc.ExchangeCodeRequest{Code: args[1]})
		if err != nil {
			return err
		}
		if out.json {
			out.encode(resp)
			return nil
		}
		switch {
		case resp.Success:
			out.printf("Signed in as %s\n", resp.ScreenName)
		case resp.NoUID:
			return fmt.Errorf("sign-in failed: the token response carried no uid (%s)", resp.Error)
		default:
			return fmt.Errorf("sign-in failed: %s", resp.Error)
		}
		return nil
	default:
		return errUsage
	}
}

func cmdLogout(ctx context.Context, c *client.Client, out *output) error {
	resp, err := c.Session.Logout(ctx, &rpc.LogoutRequest{})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	out.printf("Signed out.\n")
	return nil
}

func cmdTimeline(ctx context.Context, c *client.Client, out *output, args []string) error {
	fs := flag.NewFlagSet("timeline", flag.ContinueOnError)
	since := fs.Int64("since", 0, "only statuses newer than this id")
	maxID := fs.Int64("max", 0, "only statuses older than this id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	resp, err := c.Timeline.FetchStatuses(ctx, &rpc.FetchStatusesRequest{SinceID: *since, MaxID: *maxID})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	if !resp.Present {
		out.printf("Response had no statuses list.\n")
		return nil
	}
	printStatuses(out, resp.Statuses)
	return nil
}

func cmdCached(ctx context.Context, c *client.Client, out *output, args []string) error {
	fs := flag.NewFlagSet("cached", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "number of statuses")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	resp, err := c.Timeline.ListCached(ctx, &rpc.ListCachedRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	printStatuses(out, resp.Statuses)
	return nil
}

func printStatuses(out *output, raws []json.RawMessage) {
	if len(raws) == 0 {
		out.printf("No statuses.\n")
		return
	}
	for _, raw := range raws {
		s, err := weibo.DecodeStatus(raw)
		if err != nil {
			continue
		}
		out.printf("%-20d %-16s %s\n", s.ID, s.ScreenName(), s.Created().Local().Format("01-02 15:04"))
		out.printf("    %s\n", s.Text)
	}
}

func cmdPost(ctx context.Context, c *client.Client, out *output, args []string) error {
	if len(args) >= 2 && args[0] == "status" {
		resp, err := c.Status.GetPost(ctx, &rpc.GetPostRequest{ClientID: args[1]})
		if err != nil {
			return err
		}
		if out.json {
			out.encode(resp)
			return nil
		}
		out.printf("%s %s", resp.ClientID, resp.Status)
		if resp.ServerID != "" {
			out.printf(" (id %s)", resp.ServerID)
		}
		if resp.Error != "" {
			out.printf(": %s", resp.Error)
		}
		out.printf("\n")
		return nil
	}

	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	image := fs.String("image", "", "attach a PNG, JPEG or GIF")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		return errUsage
	}
	resp, err := c.Status.Post(ctx, &rpc.PostRequest{Text: fs.Arg(0), ImagePath: *image})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	out.printf("Queued %s\n", resp.ClientID)
	return nil
}

func cmdUnread(ctx context.Context, c *client.Client, out *output) error {
	resp, err := c.Remind.GetUnread(ctx, &rpc.GetUnreadRequest{})
	if err != nil {
		return err
	}
	if out.json {
		out.encode(resp)
		return nil
	}
	if !resp.Known {
		out.printf("Unread: unknown\n")
		return nil
	}
	out.printf("Unread: %d\n", resp.Count)
	return nil
}

func cmdWatch(ctx context.Context, c *client.Client, out *output, namespaces []string) error {
	stream, err := c.Events.WatchEvents(ctx, &rpc.WatchEventsRequest{Namespaces: namespaces})
	if err != nil {
		return err
	}
	for {
		evt, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if out.json {
			out.encode(evt)
			continue
		}
		out.printf("%s %-22s %s\n", time.UnixMilli(evt.OccurredAtMs).Format("15:04:05"), evt.Kind, string(evt.Payload))
	}
}
